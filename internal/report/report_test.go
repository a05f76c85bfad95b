package report

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roman-kulish/sol-telemetry/internal/navigation"
	"github.com/roman-kulish/sol-telemetry/internal/sol"
	"github.com/roman-kulish/sol-telemetry/internal/spectrum"
	"github.com/roman-kulish/sol-telemetry/internal/temperature"
	"github.com/roman-kulish/sol-telemetry/internal/units"
)

func snapshots(means []float64, labels map[int]string) []sol.Snapshot {
	out := make([]sol.Snapshot, len(means))
	for i, m := range means {
		label, ok := labels[i+1]
		if !ok {
			label = spectrum.Unknown
		}
		out[i] = sol.Snapshot{
			Sol:         i + 1,
			Temperature: temperature.Summary{Mean: m, Median: m, Count: 1},
			Navigation: sol.NavigationSummary{
				FinalDistance:  units.Meters(float64(i+1) * 10),
				FinalDirection: navigation.Right,
			},
			Sample: spectrum.Classification{Label: label},
		}
	}
	return out
}

func TestSummarize(t *testing.T) {
	s, err := Summarize(snapshots([]float64{250, 260, 240, 270, 230}, map[int]string{2: "Iron", 4: "Sodium"}), units.Default())
	require.NoError(t, err)

	assert.Equal(t, 5, s.Sols)
	assert.Equal(t, []float64{270, 260, 250}, s.Highest)
	assert.Equal(t, []float64{230, 240, 250}, s.Lowest)
	assert.InDelta(t, 250, s.Median, 1e-9)
	assert.InDelta(t, 250, s.Mean, 1e-9)
	assert.Nil(t, s.LowestSummer)
	assert.Nil(t, s.HighestWinter)
	assert.Equal(t, []Classified{{Sol: 4, Label: "Sodium"}, {Sol: 2, Label: "Iron"}}, s.Classified)
	require.Len(t, s.Travel, 5)
	assert.Equal(t, Travel{Sol: 3, Meters: 30, Direction: navigation.Right}, s.Travel[2])
}

func TestSummarize_Seasons(t *testing.T) {
	means := make([]float64, 1400)
	for i := range means {
		means[i] = 250
	}
	means[300] = 180  // summer
	means[1200] = 300 // winter
	means[100] = 100  // outside any window

	s, err := Summarize(snapshots(means, nil), units.Default())
	require.NoError(t, err)

	require.NotNil(t, s.LowestSummer)
	require.NotNil(t, s.HighestWinter)
	assert.Equal(t, 180.0, *s.LowestSummer)
	assert.Equal(t, 300.0, *s.HighestWinter)
}

func TestSummarize_LastNineClassified(t *testing.T) {
	labels := make(map[int]string)
	for i := 1; i <= 12; i++ {
		labels[i] = "Iron"
	}

	s, err := Summarize(snapshots(make([]float64, 12), labels), units.Default())
	require.NoError(t, err)

	require.Len(t, s.Classified, 9)
	assert.Equal(t, 12, s.Classified[0].Sol)
	assert.Equal(t, 4, s.Classified[8].Sol)
}

func TestSummary_WriteText(t *testing.T) {
	s, err := Summarize(snapshots([]float64{250, 260, 240, 270, 230}, map[int]string{2: "Iron"}), units.Default())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.WriteText(&buf, "curiosity"))
	out := buf.String()

	for _, want := range []string{
		"Final report for curiosity: 5 Sols",
		"3 highest temperatures (K): 270, 260, 250",
		"3 lowest temperatures (K): 230, 240, 250",
		"Median temperature: 250 K (-23.15 °C)",
		"Lowest summer temperature: n/a",
		"Highest winter temperature: n/a",
		"2nd Sol: Iron",
		"Sol 1: 10 m (10.00 meters), direction: Right",
	} {
		assert.Contains(t, out, want)
	}
}

func TestSummary_WriteTextEmpty(t *testing.T) {
	s, err := Summarize(nil, units.Default())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.WriteText(&buf, "empty"))

	out := buf.String()
	assert.Contains(t, out, "3 highest temperatures (K): n/a")
	assert.Contains(t, out, "Median temperature: 0 K")
	assert.True(t, strings.Contains(out, "Sample classifications (last 9):\n  none"))
}

func TestChart_WritePNG(t *testing.T) {
	points := Points(snapshots([]float64{250, 260, 240, 270, 230}, nil))
	chart := NewChart(ChartConfig{Width: 400, Height: 200})

	var buf bytes.Buffer
	require.NoError(t, chart.WritePNG(&buf, points))

	img, err := png.Decode(&buf)
	require.NoError(t, err)

	b := img.Bounds()
	assert.Equal(t, 400+defaultLeftBorder+defaultRightBorder, b.Dx())
	assert.Equal(t, 200+defaultTopBorder+defaultBottomBorder, b.Dy())
}

func TestChart_SinglePoint(t *testing.T) {
	img, err := NewChart(ChartConfig{}).Render([]Point{{Sol: 1, Kelvin: 250}})
	require.NoError(t, err)
	assert.Equal(t, defaultWidth+defaultLeftBorder+defaultRightBorder, img.Bounds().Dx())
}

func TestChart_Empty(t *testing.T) {
	_, err := NewChart(ChartConfig{}).Render(nil)
	assert.Error(t, err)
}

func TestNiceStep(t *testing.T) {
	testCases := []struct {
		span, labels, want float64
	}{
		{100, 5, 20},
		{40, 5, 10},
		{7, 5, 2},
		{0, 5, 1},
		{1000, 12, 100},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, niceStep(tc.span, tc.labels), "span %v labels %v", tc.span, tc.labels)
	}
}

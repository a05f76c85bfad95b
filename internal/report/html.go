package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// WriteHTML writes an interactive page with the mean temperature and the
// distance traveled per Sol.
func (s *Summary) WriteHTML(w io.Writer, title string, points []Point) error {
	if len(points) == 0 {
		return errors.New("no data to plot")
	}

	sols := make([]string, len(points))
	temperatures := make([]opts.LineData, len(points))
	for i, p := range points {
		sols[i] = strconv.Itoa(p.Sol)
		temperatures[i] = opts.LineData{Value: p.Kelvin}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Mean temperature", Subtitle: fmt.Sprintf("%s, %d Sols", title, s.Sols)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Sol", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "K"}),
	)
	line.SetXAxis(sols).AddSeries("mean", temperatures)

	traveled := make([]string, len(s.Travel))
	distances := make([]opts.BarData, len(s.Travel))
	for i, t := range s.Travel {
		traveled[i] = strconv.Itoa(t.Sol)
		distances[i] = opts.BarData{Name: t.Direction.String(), Value: t.Meters}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "360px"}),
		charts.WithTitleOpts(opts.Title{Title: "Distance traveled"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Sol", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "m"}),
	)
	bar.SetXAxis(traveled).AddSeries("distance", distances)

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(line, bar)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}

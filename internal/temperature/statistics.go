package temperature

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrEmptyWindow is returned by seasonal queries when a window has no history entries
var ErrEmptyWindow = errors.New("empty window")

// Window is an inclusive range of 0-based Sol indexes into a temperature history
type Window struct {
	Start int
	End   int
}

func (w Window) String() string {
	return fmt.Sprintf("[%d,%d]", w.Start, w.End)
}

// Seasonal windows of the mission, as Sol indexes. These are mission specific
// and are not derived from calendar data.
var (
	summerWindows = []Window{{195, 372}, {865, 1042}}
	winterWindows = []Window{{515, 669}, {1185, 1374}}
)

// SummerWindows returns a copy of the summer windows
func SummerWindows() []Window {
	return slices.Clone(summerWindows)
}

// WinterWindows returns a copy of the winter windows
func WinterWindows() []Window {
	return slices.Clone(winterWindows)
}

// Mean returns the arithmetic mean of data, or 0 for an empty series
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// Median returns the median of data, averaging the two middle values of an
// even-length series. It returns 0 for an empty series.
func Median(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}

	sorted := slices.Clone(data)
	slices.Sort(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// LargestN returns up to n largest values in descending order
func LargestN(data []float64, n int) []float64 {
	sorted := slices.Clone(data)
	slices.Sort(sorted)
	slices.Reverse(sorted)
	return sorted[:min(max(n, 0), len(sorted))]
}

// SmallestN returns up to n smallest values in ascending order
func SmallestN(data []float64, n int) []float64 {
	sorted := slices.Clone(data)
	slices.Sort(sorted)
	return sorted[:min(max(n, 0), len(sorted))]
}

// LowestSummer returns the minimum temperature over all summer windows
func LowestSummer(history []float64) (float64, error) {
	values, err := collect(history, summerWindows)
	if err != nil {
		return 0, fmt.Errorf("lowest summer temperature: %w", err)
	}
	return floats.Min(values), nil
}

// HighestWinter returns the maximum temperature over all winter windows
func HighestWinter(history []float64) (float64, error) {
	values, err := collect(history, winterWindows)
	if err != nil {
		return 0, fmt.Errorf("highest winter temperature: %w", err)
	}
	return floats.Max(values), nil
}

// collect returns the union of history entries covered by windows.
// Every window must cover at least one entry.
func collect(history []float64, windows []Window) ([]float64, error) {
	var values []float64
	for _, w := range windows {
		if w.Start < 0 || w.Start >= len(history) || w.End < w.Start {
			return nil, fmt.Errorf("%w: %s over %d sols", ErrEmptyWindow, w, len(history))
		}
		end := min(w.End, len(history)-1)
		values = append(values, history[w.Start:end+1]...)
	}
	return values, nil
}

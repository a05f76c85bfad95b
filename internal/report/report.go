package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/roman-kulish/sol-telemetry/internal/navigation"
	"github.com/roman-kulish/sol-telemetry/internal/sol"
	"github.com/roman-kulish/sol-telemetry/internal/temperature"
	"github.com/roman-kulish/sol-telemetry/internal/units"
)

const (
	extremesCount   = 3
	classifiedCount = 9
	notAvailable    = "n/a"
)

// Classified is a Sol whose sample matched an element
type Classified struct {
	Sol   int
	Label string
}

// Travel is the navigation result of a Sol
type Travel struct {
	Sol       int
	Meters    float64
	Direction navigation.Direction
}

// Summary is the mission-wide report computed from stored snapshots.
// Temperatures are the per-Sol means in Kelvin.
type Summary struct {
	Sols int

	Highest []float64 // Descending
	Lowest  []float64 // Ascending
	Median  float64
	Mean    float64

	// nil when the history does not cover the seasonal windows
	LowestSummer  *float64
	HighestWinter *float64

	Classified []Classified // Newest first
	Travel     []Travel
}

// Summarize builds the report of a mission from its snapshots in Sol order
func Summarize(snapshots []sol.Snapshot, r *units.Registry) (*Summary, error) {
	history := make([]float64, len(snapshots))
	for i, s := range snapshots {
		history[i] = s.Temperature.Mean
	}

	s := Summary{
		Sols:    len(snapshots),
		Highest: temperature.LargestN(history, extremesCount),
		Lowest:  temperature.SmallestN(history, extremesCount),
		Median:  temperature.Median(history),
		Mean:    temperature.Mean(history),
	}

	var err error
	if s.LowestSummer, err = seasonal(temperature.LowestSummer, history); err != nil {
		return nil, err
	}
	if s.HighestWinter, err = seasonal(temperature.HighestWinter, history); err != nil {
		return nil, err
	}

	for i := len(snapshots) - 1; i >= 0 && len(s.Classified) < classifiedCount; i-- {
		if snapshots[i].Sample.IsKnown() {
			s.Classified = append(s.Classified, Classified{Sol: snapshots[i].Sol, Label: snapshots[i].Sample.Label})
		}
	}

	for _, snapshot := range snapshots {
		meters, err := snapshot.Navigation.FinalDistance.ToBase(r)
		if err != nil {
			return nil, fmt.Errorf("distance of Sol %d: %w", snapshot.Sol, err)
		}
		s.Travel = append(s.Travel, Travel{
			Sol:       snapshot.Sol,
			Meters:    meters,
			Direction: snapshot.Navigation.FinalDirection,
		})
	}

	return &s, nil
}

func seasonal(query func([]float64) (float64, error), history []float64) (*float64, error) {
	v, err := query(history)
	if errors.Is(err, temperature.ErrEmptyWindow) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// WriteText renders the summary as a plain-text report
func (s *Summary) WriteText(w io.Writer, title string) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Final report for %s: %s Sols\n\n", title, humanize.Comma(int64(s.Sols)))

	sb.WriteString("Temperature statistics:\n")
	fmt.Fprintf(&sb, "  %d highest temperatures (K): %s\n", extremesCount, kelvinList(s.Highest))
	fmt.Fprintf(&sb, "  %d lowest temperatures (K): %s\n", extremesCount, kelvinList(s.Lowest))
	fmt.Fprintf(&sb, "  Median temperature: %s\n", kelvin(&s.Median))
	fmt.Fprintf(&sb, "  Mean temperature: %s\n", kelvin(&s.Mean))
	fmt.Fprintf(&sb, "  Lowest summer temperature: %s\n", kelvin(s.LowestSummer))
	fmt.Fprintf(&sb, "  Highest winter temperature: %s\n", kelvin(s.HighestWinter))

	fmt.Fprintf(&sb, "\nSample classifications (last %d):\n", classifiedCount)
	if len(s.Classified) == 0 {
		sb.WriteString("  none\n")
	}
	for _, c := range s.Classified {
		fmt.Fprintf(&sb, "  %s Sol: %s\n", humanize.Ordinal(c.Sol), c.Label)
	}

	sb.WriteString("\nDistances traveled:\n")
	for _, t := range s.Travel {
		fmt.Fprintf(&sb, "  Sol %d: %s (%.2f meters), direction: %s\n",
			t.Sol, humanize.SIWithDigits(t.Meters, 2, "m"), t.Meters, t.Direction)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func kelvin(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return fmt.Sprintf("%s K (%s °C)", humanize.FtoaWithDigits(*v, 2), humanize.FtoaWithDigits(*v-units.CelsiusOffset, 2))
}

func kelvinList(values []float64) string {
	if len(values) == 0 {
		return notAvailable
	}

	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = humanize.FtoaWithDigits(v, 2)
	}
	return strings.Join(parts, ", ")
}

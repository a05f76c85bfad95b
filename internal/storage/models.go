package storage

import (
	"fmt"

	"github.com/roman-kulish/sol-telemetry/internal/navigation"
	"github.com/roman-kulish/sol-telemetry/internal/sol"
	"github.com/roman-kulish/sol-telemetry/internal/spectrum"
	"github.com/roman-kulish/sol-telemetry/internal/temperature"
	"github.com/roman-kulish/sol-telemetry/internal/units"
)

// snapshotData is the row form of a sol.Snapshot
type snapshotData struct {
	Sol            int
	MeanK          float64
	MedianK        float64
	MinK           float64
	MaxK           float64
	SampleCount    int
	DistanceValue  float64
	DistanceUnit   string // Unit name, resolved through the unit registry
	Direction      string // Direction name
	Classification string
}

type scanner interface {
	Scan(dest ...any) error
}

func (d *snapshotData) scan(row scanner) error {
	return row.Scan(
		&d.Sol,
		&d.MeanK,
		&d.MedianK,
		&d.MinK,
		&d.MaxK,
		&d.SampleCount,
		&d.DistanceValue,
		&d.DistanceUnit,
		&d.Direction,
		&d.Classification,
	)
}

func (d *snapshotData) args(missionID string) []any {
	return []any{
		missionID,
		d.Sol,
		d.MeanK,
		d.MedianK,
		d.MinK,
		d.MaxK,
		d.SampleCount,
		d.DistanceValue,
		d.DistanceUnit,
		d.Direction,
		d.Classification,
	}
}

func toSnapshotData(s sol.Snapshot) *snapshotData {
	return &snapshotData{
		Sol:            s.Sol,
		MeanK:          s.Temperature.Mean,
		MedianK:        s.Temperature.Median,
		MinK:           s.Temperature.Min,
		MaxK:           s.Temperature.Max,
		SampleCount:    s.Temperature.Count,
		DistanceValue:  s.Navigation.FinalDistance.Value,
		DistanceUnit:   s.Navigation.FinalDistance.Unit.String(),
		Direction:      s.Navigation.FinalDirection.String(),
		Classification: s.Sample.String(),
	}
}

func (d *snapshotData) toSnapshot() (sol.Snapshot, error) {
	family, unit, err := units.Default().Lookup(d.DistanceUnit)
	if err != nil {
		return sol.Snapshot{}, fmt.Errorf("snapshot of Sol %d: %w", d.Sol, err)
	}
	if family != units.FamilyDistance {
		return sol.Snapshot{}, fmt.Errorf("snapshot of Sol %d: unit '%s' is not a distance", d.Sol, d.DistanceUnit)
	}
	direction, err := navigation.ParseDirection(d.Direction)
	if err != nil {
		return sol.Snapshot{}, fmt.Errorf("snapshot of Sol %d: %w", d.Sol, err)
	}

	return sol.Snapshot{
		Sol: d.Sol,
		Temperature: temperature.Summary{
			Mean:   d.MeanK,
			Median: d.MedianK,
			Min:    d.MinK,
			Max:    d.MaxK,
			Count:  d.SampleCount,
		},
		Navigation: sol.NavigationSummary{
			FinalDistance:  units.New(d.DistanceValue, family, unit),
			FinalDirection: direction,
		},
		Sample: spectrum.Classification{Label: d.Classification},
	}, nil
}

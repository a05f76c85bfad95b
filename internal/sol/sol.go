package sol

import (
	"context"
	"errors"

	"github.com/roman-kulish/sol-telemetry/internal/navigation"
	"github.com/roman-kulish/sol-telemetry/internal/spectrum"
	"github.com/roman-kulish/sol-telemetry/internal/temperature"
	"github.com/roman-kulish/sol-telemetry/internal/units"
)

// InitialSol is the number of the first Sol of a mission
const InitialSol = 1

// ErrSnapshotNotFound is returned when no snapshot exists for the requested Sol
var ErrSnapshotNotFound = errors.New("snapshot not found")

// NavigationSummary is the derived navigation state at the end of a Sol
type NavigationSummary struct {
	FinalDistance  units.Measurement    `json:"finalDistance"`
	FinalDirection navigation.Direction `json:"finalDirection"`
}

// Snapshot is the immutable state of all subsystems at the end of a Sol
type Snapshot struct {
	Sol         int                     `json:"sol"`
	Temperature temperature.Summary     `json:"temperature"`
	Navigation  NavigationSummary       `json:"navigation"`
	Sample      spectrum.Classification `json:"sample"`
}

// Summary is the flat form of a snapshot consumed by reports
type Summary struct {
	PeriodNumber        int     `json:"periodNumber"`
	MeanTemperatureK    float64 `json:"meanTemperatureK"`
	MedianTemperatureK  float64 `json:"medianTemperatureK"`
	FinalDistanceMeters float64 `json:"finalDistanceMeters"`
	FinalDirection      string  `json:"finalDirection"`
	Classified          string  `json:"classifiedElementOrUnknown"`
}

// Summary flattens the snapshot, converting the final distance to meters
func (s Snapshot) Summary(r *units.Registry) (Summary, error) {
	meters, err := s.Navigation.FinalDistance.ToBase(r)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		PeriodNumber:        s.Sol,
		MeanTemperatureK:    s.Temperature.Mean,
		MedianTemperatureK:  s.Temperature.Median,
		FinalDistanceMeters: meters,
		FinalDirection:      s.Navigation.FinalDirection.String(),
		Classified:          s.Sample.String(),
	}, nil
}

// Store persists finalized snapshots of a mission
type Store interface {
	StoreSnapshot(ctx context.Context, mission string, s Snapshot) error
	Snapshot(ctx context.Context, mission string, sol int) (Snapshot, error)
	Snapshots(ctx context.Context, mission string) ([]Snapshot, error)
}

// Manager tracks the Sol currently collecting telemetry
type Manager struct {
	current int
	total   int
}

// NewManager starts counting at InitialSol
func NewManager() *Manager {
	return &Manager{current: InitialSol}
}

// Resume continues a mission after the given number of finalized Sols
func Resume(finalized int) *Manager {
	return &Manager{current: InitialSol + finalized, total: finalized}
}

// Current returns the number of the Sol in progress
func (m *Manager) Current() int {
	return m.current
}

// Total returns the number of finalized Sols
func (m *Manager) Total() int {
	return m.total
}

// Advance closes the current Sol and returns the number of the next one
func (m *Manager) Advance() int {
	m.current++
	m.total++
	return m.current
}

package mission

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roman-kulish/sol-telemetry/internal/observability"
	"github.com/roman-kulish/sol-telemetry/internal/rover"
	"github.com/roman-kulish/sol-telemetry/internal/sol"
	"github.com/roman-kulish/sol-telemetry/internal/telemetry"
)

// WithRover sets the rover whose subsystems collect the telemetry
func WithRover(rv *rover.Rover) func(*Control) {
	return func(c *Control) {
		c.rover = rv
	}
}

// WithLogger sets the logger for the mission control
func WithLogger(logger *slog.Logger) func(*Control) {
	return func(c *Control) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics collector
func WithMetrics(m *observability.Collector) func(*Control) {
	return func(c *Control) {
		c.metrics = m
	}
}

// WithFinalizedSols continues a mission that already has the given number of stored Sols
func WithFinalizedSols(n int) func(*Control) {
	return func(c *Control) {
		c.sols = sol.Resume(n)
	}
}

// Control drives a single mission: it applies telemetry to the rover, decides
// when a Sol ends, stores the snapshot and starts the next Sol.
// A Temperature record closes the Sol it belongs to.
type Control struct {
	missionID string
	store     sol.Store
	rover     *rover.Rover
	sols      *sol.Manager

	logger  *slog.Logger
	metrics *observability.Collector
}

// NewControl creates the control of the mission identified by missionID
func NewControl(missionID string, store sol.Store, options ...func(*Control)) *Control {
	c := Control{
		missionID: missionID,
		store:     store,
		sols:      sol.NewManager(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)), // nil logger
	}

	for _, option := range options {
		option(&c)
	}

	if c.rover == nil {
		c.rover = rover.New(rover.WithLogger(c.logger), rover.WithMetrics(c.metrics))
	}
	c.metrics.SolStarted(c.sols.Current())

	return &c
}

// MissionID returns the id of the mission
func (c *Control) MissionID() string {
	return c.missionID
}

// CurrentSol returns the number of the Sol collecting telemetry
func (c *Control) CurrentSol() int {
	return c.sols.Current()
}

// Decode parses a line using the rover's registry
func (c *Control) Decode(line string) (telemetry.Record, error) {
	return c.rover.Decode(line)
}

// HandleLine decodes a telemetry line and applies it. See HandleRecord.
func (c *Control) HandleLine(ctx context.Context, line string) (*sol.Snapshot, error) {
	record, err := c.rover.Decode(line)
	if err != nil {
		return nil, err
	}
	return c.HandleRecord(ctx, record)
}

// HandleRecord applies a record to the rover. When the record is a
// temperature reading, the Sol is finalized and its snapshot returned.
// Otherwise the returned snapshot is nil.
func (c *Control) HandleRecord(ctx context.Context, record telemetry.Record) (*sol.Snapshot, error) {
	if err := c.rover.Apply(record); err != nil {
		return nil, err
	}

	if record.Kind() != telemetry.KindTemperature {
		return nil, nil
	}

	snapshot, err := c.FinalizeSol(ctx)
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// FinalizeSol snapshots the current Sol, stores it, advances to the next Sol
// and resets the rover. When storing fails the Sol stays open.
func (c *Control) FinalizeSol(ctx context.Context) (sol.Snapshot, error) {
	snapshot := c.rover.Snapshot(c.sols.Current())

	if err := c.store.StoreSnapshot(ctx, c.missionID, snapshot); err != nil {
		return sol.Snapshot{}, fmt.Errorf("finalizing Sol %d: %w", snapshot.Sol, err)
	}

	next := c.sols.Advance()
	c.rover.Reset()
	c.metrics.SolFinalized(next)

	c.logger.Info("sol finalized",
		slog.Int("sol", snapshot.Sol),
		slog.Float64("meanK", snapshot.Temperature.Mean),
		slog.String("direction", snapshot.Navigation.FinalDirection.String()),
		slog.String("sample", snapshot.Sample.String()))

	return snapshot, nil
}

// Observations returns the stored snapshots of the mission in Sol order
func (c *Control) Observations(ctx context.Context) ([]sol.Snapshot, error) {
	snapshots, err := c.store.Snapshots(ctx, c.missionID)
	if err != nil {
		return nil, fmt.Errorf("reading observations: %w", err)
	}
	return snapshots, nil
}

// TemperatureHistory returns the mean temperature of every stored Sol in Sol
// order, indexed from 0. It is the series seasonal queries operate on.
func (c *Control) TemperatureHistory(ctx context.Context) ([]float64, error) {
	snapshots, err := c.Observations(ctx)
	if err != nil {
		return nil, err
	}
	return History(snapshots), nil
}

// History extracts the mean temperature series from snapshots
func History(snapshots []sol.Snapshot) []float64 {
	history := make([]float64, len(snapshots))
	for i, s := range snapshots {
		history[i] = s.Temperature.Mean
	}
	return history
}

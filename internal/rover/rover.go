package rover

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roman-kulish/sol-telemetry/internal/navigation"
	"github.com/roman-kulish/sol-telemetry/internal/observability"
	"github.com/roman-kulish/sol-telemetry/internal/sol"
	"github.com/roman-kulish/sol-telemetry/internal/spectrum"
	"github.com/roman-kulish/sol-telemetry/internal/telemetry"
	"github.com/roman-kulish/sol-telemetry/internal/temperature"
	"github.com/roman-kulish/sol-telemetry/internal/units"
)

// ErrUnsupportedRecord is returned by Apply for a record it cannot dispatch
var ErrUnsupportedRecord = errors.New("unsupported record")

// WithRegistry sets the unit registry used for decoding and conversion
func WithRegistry(r *units.Registry) func(*Rover) {
	return func(rv *Rover) {
		rv.registry = r
	}
}

// WithClassifier sets the classifier for sample analysis
func WithClassifier(c *spectrum.Classifier) func(*Rover) {
	return func(rv *Rover) {
		rv.classifier = c
	}
}

// WithLogger sets the logger for the rover
func WithLogger(logger *slog.Logger) func(*Rover) {
	return func(rv *Rover) {
		rv.logger = logger
	}
}

// WithMetrics sets the metrics collector
func WithMetrics(c *observability.Collector) func(*Rover) {
	return func(rv *Rover) {
		rv.metrics = c
	}
}

// Rover holds the subsystem state of one mission for the Sol in progress:
// navigation, temperature samples and sample analysis. It is not safe for
// concurrent use; independent missions need their own Rover.
type Rover struct {
	registry   *units.Registry
	classifier *spectrum.Classifier
	parser     *telemetry.Parser

	navigation  navigation.Navigation
	temperature temperature.Temperature
	analysis    *spectrum.Analysis

	logger  *slog.Logger
	metrics *observability.Collector
}

// New creates a Rover using the default registry and classifier unless overridden
func New(options ...func(*Rover)) *Rover {
	rv := Rover{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // nil logger
	}

	for _, option := range options {
		option(&rv)
	}

	if rv.registry == nil {
		rv.registry = units.Default()
	}
	if rv.classifier == nil {
		rv.classifier = spectrum.Default()
	}

	rv.parser = telemetry.NewParser(rv.registry)
	rv.analysis = spectrum.NewAnalysis(rv.classifier)

	return &rv
}

// Registry returns the unit registry of the rover
func (rv *Rover) Registry() *units.Registry {
	return rv.registry
}

// Decode parses a telemetry line without touching any subsystem
func (rv *Rover) Decode(line string) (telemetry.Record, error) {
	record, err := rv.parser.Decode(line)
	if err != nil {
		rv.metrics.RecordDecodeError()
		return nil, err
	}
	return record, nil
}

// Apply mutates exactly the subsystem matching the record kind.
// Temperature and sample records apply atomically; see navigation.Navigation.Apply
// for the behavior of a navigation record that fails midway.
func (rv *Rover) Apply(record telemetry.Record) error {
	var err error

	switch r := record.(type) {
	case *telemetry.NavigationRecord:
		err = rv.navigation.Apply(rv.registry, r.Movements())

	case *telemetry.TemperatureRecord:
		err = rv.temperature.Add(rv.registry, r.Temperature())

	case *telemetry.SampleAnalysisRecord:
		c := rv.analysis.Add(r.Wavelength(), r.Intensity())
		rv.logger.Debug("sample classified",
			slog.Float64("wavelength", r.Wavelength().Value),
			slog.Float64("intensity", r.Intensity()),
			slog.String("label", c.String()))

	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedRecord, record)
	}

	if err != nil {
		rv.metrics.RecordApplyError(record.Kind().String())
		return fmt.Errorf("applying %s record: %w", record.Kind(), err)
	}

	rv.metrics.RecordApplied(record.Kind().String())
	return nil
}

// Snapshot assembles the state of all subsystems for the given Sol.
// It does not reset anything.
func (rv *Rover) Snapshot(number int) sol.Snapshot {
	return sol.Snapshot{
		Sol:         number,
		Temperature: rv.temperature.Summary(),
		Navigation: sol.NavigationSummary{
			FinalDistance:  rv.navigation.FinalDistance(),
			FinalDirection: rv.navigation.FinalDirection(),
		},
		Sample: rv.analysis.Classification(),
	}
}

// Reset clears all subsystems for the next Sol
func (rv *Rover) Reset() {
	rv.navigation.Reset()
	rv.temperature.Reset()
	rv.analysis.Reset()
}

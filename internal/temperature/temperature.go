package temperature

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/roman-kulish/sol-telemetry/internal/units"
)

// Summary describes the temperature samples of a Sol, in Kelvin.
// Mean and Median are 0 when there are no samples.
type Summary struct {
	Mean   float64 `json:"meanK"`
	Median float64 `json:"medianK"`
	Min    float64 `json:"minK"`
	Max    float64 `json:"maxK"`
	Count  int     `json:"count"`
}

// Temperature collects the temperature samples of the current Sol in arrival order.
// The zero value is ready to use.
type Temperature struct {
	samples []float64
}

// Add converts m to Kelvin and appends it. Non-temperature measurements are rejected.
func (t *Temperature) Add(r *units.Registry, m units.Measurement) error {
	if m.Family != units.FamilyTemperature {
		return fmt.Errorf("adding temperature sample: %w: %s is not a temperature", units.ErrUnknownUnit, m.Family)
	}

	kelvin, err := m.ToBase(r)
	if err != nil {
		return fmt.Errorf("adding temperature sample: %w", err)
	}

	t.samples = append(t.samples, kelvin)
	return nil
}

// Samples returns a copy of the collected samples in Kelvin
func (t *Temperature) Samples() []float64 {
	return slices.Clone(t.samples)
}

// Len returns the number of collected samples
func (t *Temperature) Len() int {
	return len(t.samples)
}

// Summary computes statistics over the collected samples
func (t *Temperature) Summary() Summary {
	s := Summary{
		Mean:   Mean(t.samples),
		Median: Median(t.samples),
		Count:  len(t.samples),
	}
	if len(t.samples) > 0 {
		s.Min = floats.Min(t.samples)
		s.Max = floats.Max(t.samples)
	}
	return s
}

// Reset clears all samples
func (t *Temperature) Reset() {
	t.samples = nil
}

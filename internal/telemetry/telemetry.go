package telemetry

import (
	"fmt"
	"slices"

	"github.com/roman-kulish/sol-telemetry/internal/navigation"
	"github.com/roman-kulish/sol-telemetry/internal/units"
)

const (
	KindNavigation Kind = iota
	KindTemperature
	KindSampleAnalysis
)

// Kind is the tag of a decoded telemetry record
type Kind int

func (k Kind) String() string {
	switch k {
	case KindNavigation:
		return "navigation"
	case KindTemperature:
		return "temperature"
	case KindSampleAnalysis:
		return "sample-analysis"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Record is one decoded telemetry line. The set of implementations is closed:
// *NavigationRecord, *TemperatureRecord and *SampleAnalysisRecord.
// Records never change after decoding.
type Record interface {
	Kind() Kind
	record()
}

// NavigationRecord carries ordered movements for the navigation subsystem
type NavigationRecord struct {
	movements []navigation.Movement
}

// NewNavigationRecord creates a navigation record from movements in the order they were reported
func NewNavigationRecord(movements []navigation.Movement) *NavigationRecord {
	return &NavigationRecord{movements: slices.Clone(movements)}
}

func (*NavigationRecord) Kind() Kind { return KindNavigation }
func (*NavigationRecord) record()    {}

// Movements returns a copy of the movements in order
func (r *NavigationRecord) Movements() []navigation.Movement {
	return slices.Clone(r.movements)
}

// TemperatureRecord carries a single temperature measurement
type TemperatureRecord struct {
	temperature units.Measurement
}

// NewTemperatureRecord creates a record from a temperature measurement
func NewTemperatureRecord(m units.Measurement) *TemperatureRecord {
	return &TemperatureRecord{temperature: m}
}

func (*TemperatureRecord) Kind() Kind { return KindTemperature }
func (*TemperatureRecord) record()    {}

// Temperature returns the measurement in its original unit
func (r *TemperatureRecord) Temperature() units.Measurement {
	return r.temperature
}

// SampleAnalysisRecord carries a spectral reading. Intensity has no unit.
type SampleAnalysisRecord struct {
	wavelength units.Measurement
	intensity  float64
}

// NewSampleAnalysisRecord creates a record from a wavelength and a unitless intensity
func NewSampleAnalysisRecord(wavelength units.Measurement, intensity float64) *SampleAnalysisRecord {
	return &SampleAnalysisRecord{wavelength: wavelength, intensity: intensity}
}

func (*SampleAnalysisRecord) Kind() Kind { return KindSampleAnalysis }
func (*SampleAnalysisRecord) record()    {}

// Wavelength returns the measured wavelength in its original unit
func (r *SampleAnalysisRecord) Wavelength() units.Measurement {
	return r.wavelength
}

// Intensity returns the measured intensity
func (r *SampleAnalysisRecord) Intensity() float64 {
	return r.intensity
}

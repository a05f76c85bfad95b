package spectrum

import (
	"fmt"

	"github.com/roman-kulish/sol-telemetry/internal/units"
)

// Unknown is the label of a sample that matched no element
const Unknown = "Unknown"

const (
	LevelHigh Level = iota
	LevelMedium
	LevelLow
)

// Level is an intensity tier
type Level int

func (l Level) String() string {
	switch l {
	case LevelHigh:
		return "high"
	case LevelMedium:
		return "medium"
	case LevelLow:
		return "low"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Range is an inclusive wavelength range, in the nanometer-scale numbers of the element library
type Range struct {
	From float64 `json:"from"`
	To   float64 `json:"to"`
}

// Contains reports whether v lies within the range, both ends included
func (r Range) Contains(v float64) bool {
	return v >= r.From && v <= r.To
}

// Element is a material and its emission wavelength range for each intensity tier
type Element struct {
	Name   string `json:"name"`
	High   Range  `json:"high"`
	Medium Range  `json:"medium"`
	Low    Range  `json:"low"`
}

// Range returns the wavelength range of the given tier
func (e Element) Range(l Level) Range {
	switch l {
	case LevelHigh:
		return e.High
	case LevelMedium:
		return e.Medium
	default:
		return e.Low
	}
}

// Thresholds are the minimum intensities of each tier for an element
type Thresholds struct {
	Element string  `json:"element"`
	High    float64 `json:"high"`
	Medium  float64 `json:"medium"`
	Low     float64 `json:"low"`
}

// Level returns the highest tier reached by intensity, or false when
// intensity is below the low threshold.
func (t Thresholds) Level(intensity float64) (Level, bool) {
	switch {
	case intensity >= t.High:
		return LevelHigh, true
	case intensity >= t.Medium:
		return LevelMedium, true
	case intensity >= t.Low:
		return LevelLow, true
	default:
		return 0, false
	}
}

// Classification is the material identity assigned to a sample, or Unknown
type Classification struct {
	Label string `json:"label"`
}

// IsKnown reports whether the sample matched an element
func (c Classification) IsKnown() bool {
	return c.Label != "" && c.Label != Unknown
}

func (c Classification) String() string {
	if c.Label == "" {
		return Unknown
	}
	return c.Label
}

// Sample is a single spectral reading
type Sample struct {
	Wavelength units.Measurement `json:"wavelength"`
	Intensity  float64           `json:"intensity"`
}

package spectrum

import (
	"slices"

	"github.com/roman-kulish/sol-telemetry/internal/units"
)

// Classifier maps (wavelength, intensity) pairs to a material using an element
// library and an intensity table. A Classifier is never mutated after
// construction.
type Classifier struct {
	elements   []Element
	byName     map[string]Element
	thresholds []Thresholds
}

// NewClassifier creates a classifier. Thresholds are scanned in the given order.
func NewClassifier(elements []Element, thresholds []Thresholds) *Classifier {
	c := Classifier{
		elements:   slices.Clone(elements),
		byName:     make(map[string]Element, len(elements)),
		thresholds: slices.Clone(thresholds),
	}
	for _, e := range elements {
		if _, ok := c.byName[e.Name]; !ok {
			c.byName[e.Name] = e
		}
	}
	return &c
}

// Classify identifies the material of a sample.
//
// For each intensity table entry in order, the tier reached by intensity
// selects the matching wavelength range of that element. The first element
// whose range contains the wavelength wins. The wavelength value is compared
// as given, without unit conversion, so it must be in the same unit space as
// the library (nanometer-scale numbers).
func (c *Classifier) Classify(wavelength units.Measurement, intensity float64) Classification {
	for _, t := range c.thresholds {
		level, ok := t.Level(intensity)
		if !ok {
			continue
		}

		element, ok := c.byName[t.Element]
		if !ok {
			continue
		}

		if element.Range(level).Contains(wavelength.Value) {
			return Classification{Label: element.Name}
		}
	}

	return Classification{Label: Unknown}
}

// Analysis holds the most recent sample of a Sol and its classification.
// The zero value is not usable, use NewAnalysis.
type Analysis struct {
	classifier *Classifier

	sample         *Sample
	classification Classification
}

// NewAnalysis creates an Analysis backed by the given classifier
func NewAnalysis(c *Classifier) *Analysis {
	return &Analysis{
		classifier:     c,
		classification: Classification{Label: Unknown},
	}
}

// Add records a sample and classifies it, replacing any earlier sample of the Sol
func (a *Analysis) Add(wavelength units.Measurement, intensity float64) Classification {
	a.sample = &Sample{Wavelength: wavelength, Intensity: intensity}
	a.classification = a.classifier.Classify(wavelength, intensity)
	return a.classification
}

// Sample returns the most recent sample, if any
func (a *Analysis) Sample() (Sample, bool) {
	if a.sample == nil {
		return Sample{}, false
	}
	return *a.sample, true
}

// Classification returns the classification of the most recent sample, or Unknown
func (a *Analysis) Classification() Classification {
	return a.classification
}

// Reset discards the sample and its classification
func (a *Analysis) Reset() {
	a.sample = nil
	a.classification = Classification{Label: Unknown}
}

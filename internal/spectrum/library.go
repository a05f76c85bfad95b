package spectrum

import (
	"slices"
	"sync"
)

// library returns the element library. Ranges are listed high, medium, low.
func library() []Element {
	return []Element{
		{"Iron", Range{380, 400}, Range{400, 420}, Range{420, 450}},
		{"Magnesium", Range{285, 300}, Range{300, 320}, Range{320, 340}},
		{"Silicon", Range{250, 270}, Range{270, 290}, Range{290, 310}},
		{"Aluminum", Range{308, 330}, Range{330, 350}, Range{350, 370}},
		{"Calcium", Range{393, 405}, Range{405, 425}, Range{425, 445}},
		{"Titanium", Range{330, 345}, Range{345, 365}, Range{365, 385}},
		{"Manganese", Range{405, 425}, Range{425, 445}, Range{445, 465}},
		{"Sodium", Range{589, 590}, Range{590, 600}, Range{600, 610}},
		{"Lithium", Range{670, 690}, Range{690, 710}, Range{710, 730}},
		{"Potassium", Range{766, 770}, Range{771, 774}, Range{774, 780}},
		{"Oxygen", Range{759, 763}, Range{763, 770}, Range{770, 780}},
		{"Hydrogen", Range{656, 660}, Range{660, 670}, Range{670, 680}},
		{"Carbon", Range{430, 450}, Range{450, 470}, Range{470, 490}},
	}
}

// intensityTable returns the per-element intensity thresholds in scan order
func intensityTable() []Thresholds {
	return []Thresholds{
		{"Iron", 0.8, 0.5, 0.2},
		{"Magnesium", 0.85, 0.6, 0.3},
		{"Silicon", 0.9, 0.65, 0.35},
		{"Aluminum", 0.88, 0.6, 0.3},
		{"Calcium", 0.92, 0.7, 0.4},
		{"Titanium", 0.87, 0.63, 0.32},
		{"Manganese", 0.9, 0.65, 0.33},
		{"Sodium", 0.95, 0.7, 0.4},
		{"Lithium", 0.9, 0.6, 0.3},
		{"Potassium", 0.9, 0.65, 0.35},
		{"Oxygen", 0.85, 0.6, 0.3},
		{"Hydrogen", 0.93, 0.68, 0.4},
		{"Carbon", 0.88, 0.6, 0.3},
	}
}

// Default returns the classifier built from the built-in tables.
// It is built once and safe for concurrent use.
var Default = sync.OnceValue(func() *Classifier {
	return NewClassifier(library(), intensityTable())
})

// Elements returns a copy of the built-in element library
func Elements() []Element {
	return slices.Clone(Default().elements)
}

package units

import "fmt"

// Measurement is a numeric value tagged with a unit family and a unit
// of that family. Measurements are values and never change after construction.
type Measurement struct {
	Value  float64 `json:"value"`
	Family Family  `json:"family"`
	Unit   Unit    `json:"unit"`
}

// New creates a measurement. The pair is checked against the registry only
// when the measurement is converted.
func New(value float64, family Family, unit Unit) Measurement {
	return Measurement{Value: value, Family: family, Unit: unit}
}

// Meters is a shorthand for a distance measurement in meters
func Meters(value float64) Measurement {
	return New(value, FamilyDistance, Meter)
}

// ToBase converts the measurement to the base unit of its family
func (m Measurement) ToBase(r *Registry) (float64, error) {
	return r.ToBase(m.Value, m.Family, m.Unit)
}

// UnitName returns the canonical name of the measurement's unit
func (m Measurement) UnitName(r *Registry) (string, error) {
	info, err := r.Info(m.Family, m.Unit)
	if err != nil {
		return "", err
	}
	return info.Name, nil
}

func (m Measurement) String() string {
	return fmt.Sprintf("%g %s", m.Value, m.Unit)
}

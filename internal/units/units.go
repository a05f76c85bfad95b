package units

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

const (
	FamilyDistance Family = iota
	FamilyTemperature
	FamilyTime
	FamilyNone
)

const (
	Meter Unit = iota
	Nanometer
	Micrometer
	Centimeter
	Kilometer

	Kelvin
	Celsius

	Second
	Minute
	Hour
	Sol
)

// CelsiusOffset is the additive offset between Celsius and Kelvin
const CelsiusOffset = 273.15

// SolSeconds is the length of a Martian solar day in seconds
const SolSeconds = 88_775.244

// ErrUnknownUnit is returned when a unit token or a (family, unit) pair is not registered
var ErrUnknownUnit = errors.New("unknown unit")

// Default returns the process-wide registry. It is built on first use and never mutated.
var Default = sync.OnceValue(NewRegistry)

// Family selects the conversion table and base unit of a measurement
type Family int

func (f Family) String() string {
	switch f {
	case FamilyDistance:
		return "distance"
	case FamilyTemperature:
		return "temperature"
	case FamilyTime:
		return "time"
	case FamilyNone:
		return "none"
	default:
		return fmt.Sprintf("Family(%d)", int(f))
	}
}

// Unit is a specific unit within a Family
type Unit int

func (u Unit) String() string {
	switch u {
	case Meter:
		return "meters"
	case Nanometer:
		return "nanometers"
	case Micrometer:
		return "micrometers"
	case Centimeter:
		return "centimeters"
	case Kilometer:
		return "kilometers"
	case Kelvin:
		return "kelvin"
	case Celsius:
		return "celsius"
	case Second:
		return "seconds"
	case Minute:
		return "minutes"
	case Hour:
		return "hours"
	case Sol:
		return "sols"
	default:
		return fmt.Sprintf("Unit(%d)", int(u))
	}
}

// Info describes how a unit converts to the base unit of its family:
// base = value*Factor + Offset.
type Info struct {
	Factor float64
	Offset float64
	Name   string
}

type key struct {
	family Family
	unit   Unit
}

// Registry maps units to conversion factors and token aliases to units.
// A Registry is immutable once NewRegistry returns.
type Registry struct {
	units   map[key]Info
	aliases map[string]key
}

// NewRegistry builds a registry with base units meters (distance),
// Kelvin (temperature) and seconds (time).
func NewRegistry() *Registry {
	r := Registry{
		units: map[key]Info{
			{FamilyDistance, Meter}:      {Factor: 1, Name: "meters"},
			{FamilyDistance, Nanometer}:  {Factor: 1e-9, Name: "nanometers"},
			{FamilyDistance, Micrometer}: {Factor: 1e-6, Name: "micrometers"},
			{FamilyDistance, Centimeter}: {Factor: 0.01, Name: "centimeters"},
			{FamilyDistance, Kilometer}:  {Factor: 1000, Name: "kilometers"},

			{FamilyTemperature, Kelvin}:  {Factor: 1, Name: "kelvin"},
			{FamilyTemperature, Celsius}: {Factor: 1, Offset: CelsiusOffset, Name: "celsius"},

			{FamilyTime, Second}: {Factor: 1, Name: "seconds"},
			{FamilyTime, Minute}: {Factor: 60, Name: "minutes"},
			{FamilyTime, Hour}:   {Factor: 3600, Name: "hours"},
			{FamilyTime, Sol}:    {Factor: SolSeconds, Name: "sols"},
		},
		aliases: make(map[string]key),
	}

	alias := func(family Family, unit Unit, tokens ...string) {
		for _, t := range tokens {
			r.aliases[t] = key{family, unit}
		}
	}

	alias(FamilyDistance, Meter, "m", "meter", "meters")
	alias(FamilyDistance, Nanometer, "nm", "nanometer", "nanometers")
	alias(FamilyDistance, Micrometer, "um", "micrometer", "micrometers")
	alias(FamilyDistance, Centimeter, "cm", "centimeter", "centimeters")
	alias(FamilyDistance, Kilometer, "km", "kilometer", "kilometers")

	alias(FamilyTemperature, Celsius, "c", "celsius")
	alias(FamilyTemperature, Kelvin, "k", "kelvin")

	alias(FamilyTime, Second, "s", "sec", "second", "seconds")
	alias(FamilyTime, Minute, "min", "minute", "minutes")
	alias(FamilyTime, Hour, "h", "hr", "hour", "hours")
	alias(FamilyTime, Sol, "sol", "sols")

	return &r
}

// Info returns the conversion info of a (family, unit) pair
func (r *Registry) Info(family Family, unit Unit) (Info, error) {
	info, ok := r.units[key{family, unit}]
	if !ok {
		return Info{}, fmt.Errorf("%w: %s unit %d", ErrUnknownUnit, family, int(unit))
	}
	return info, nil
}

// ToBase converts value from the given unit to the base unit of its family
func (r *Registry) ToBase(value float64, family Family, unit Unit) (float64, error) {
	info, err := r.Info(family, unit)
	if err != nil {
		return 0, err
	}
	return value*info.Factor + info.Offset, nil
}

// Lookup resolves a unit token to its family and unit. Matching is
// case-insensitive; surrounding whitespace is ignored.
func (r *Registry) Lookup(token string) (Family, Unit, error) {
	k, ok := r.aliases[strings.ToLower(strings.TrimSpace(token))]
	if !ok {
		return FamilyNone, 0, fmt.Errorf("%w: '%s'", ErrUnknownUnit, token)
	}
	return k.family, k.unit, nil
}

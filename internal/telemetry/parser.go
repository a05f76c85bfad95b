package telemetry

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/roman-kulish/sol-telemetry/internal/navigation"
	"github.com/roman-kulish/sol-telemetry/internal/units"
)

const (
	typeNavigation     = "d"
	typeTemperature    = "t"
	typeSampleAnalysis = "w"
)

var (
	// ErrMalformedRecord is returned for any line that does not follow the telemetry grammar
	ErrMalformedRecord = errors.New("malformed record")

	errEmptyRecord = errors.New("empty record")
	errUnknownType = errors.New("unknown record type")
	errFieldCount  = errors.New("wrong number of fields")
	errEmptyField  = errors.New("empty field")
	errNotFinite   = errors.New("not a finite number")
	errWrongFamily = errors.New("unit of wrong family")
	errIncomplete  = errors.New("incomplete movement group")
	errNoMovements = errors.New("no movements")
)

// ParseError describes why a line could not be decoded. It matches
// ErrMalformedRecord and the underlying cause with errors.Is and errors.As.
type ParseError struct {
	Line  string // The raw line
	Field int    // 0-based index of the offending field, -1 for the whole line
	Text  string // The offending field
	Err   error  // The cause
}

func (e *ParseError) Error() string {
	if e.Field < 0 {
		return fmt.Sprintf("%s: %s", ErrMalformedRecord, e.Err)
	}
	return fmt.Sprintf("%s: field %d '%s': %s", ErrMalformedRecord, e.Field, e.Text, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrMalformedRecord, e.Err}
}

// Parser decodes comma-delimited telemetry lines:
//
//	t,<value>,<unit>
//	w,<wavelength>,<unit>,<intensity>
//	d,<value>,<unit>,<direction>[,<value>,<unit>,<direction>|,<value>,<time unit>]...
type Parser struct {
	registry *units.Registry
}

// NewParser creates a parser resolving units through r
func NewParser(r *units.Registry) *Parser {
	return &Parser{registry: r}
}

// Decode parses a single line into a Record
func (p *Parser) Decode(line string) (Record, error) {
	if strings.TrimSpace(line) == "" {
		return nil, &ParseError{Line: line, Field: -1, Err: errEmptyRecord}
	}

	fields := strings.Split(line, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	d := decoder{registry: p.registry, line: line, fields: fields}

	switch fields[0] {
	case typeTemperature:
		return d.temperature()
	case typeSampleAnalysis:
		return d.sampleAnalysis()
	case typeNavigation:
		return d.navigation()
	default:
		return nil, d.errorAt(0, errUnknownType)
	}
}

// decoder holds the state of decoding one line
type decoder struct {
	registry *units.Registry
	line     string
	fields   []string
}

func (d *decoder) errorAt(field int, err error) *ParseError {
	return &ParseError{Line: d.line, Field: field, Text: d.fields[field], Err: err}
}

func (d *decoder) expectFields(n int) error {
	if len(d.fields) != n {
		return &ParseError{
			Line:  d.line,
			Field: -1,
			Err:   fmt.Errorf("%w: %s record needs %d, got %d", errFieldCount, d.fields[0], n, len(d.fields)),
		}
	}
	return nil
}

func (d *decoder) float(i int) (float64, error) {
	if d.fields[i] == "" {
		return 0, d.errorAt(i, errEmptyField)
	}
	v, err := strconv.ParseFloat(d.fields[i], 64)
	if err != nil {
		return 0, d.errorAt(i, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, d.errorAt(i, errNotFinite)
	}
	return v, nil
}

func (d *decoder) unit(i int) (units.Family, units.Unit, error) {
	if d.fields[i] == "" {
		return units.FamilyNone, 0, d.errorAt(i, errEmptyField)
	}
	family, unit, err := d.registry.Lookup(d.fields[i])
	if err != nil {
		return units.FamilyNone, 0, d.errorAt(i, err)
	}
	return family, unit, nil
}

// measurement parses the value at i and the unit at i+1, requiring the given family
func (d *decoder) measurement(i int, want units.Family) (units.Measurement, error) {
	value, err := d.float(i)
	if err != nil {
		return units.Measurement{}, err
	}
	family, unit, err := d.unit(i + 1)
	if err != nil {
		return units.Measurement{}, err
	}
	if family != want {
		return units.Measurement{}, d.errorAt(i+1, fmt.Errorf("%w: %s, expected %s", errWrongFamily, family, want))
	}
	return units.New(value, family, unit), nil
}

func (d *decoder) temperature() (Record, error) {
	if err := d.expectFields(3); err != nil {
		return nil, err
	}

	m, err := d.measurement(1, units.FamilyTemperature)
	if err != nil {
		return nil, err
	}
	return NewTemperatureRecord(m), nil
}

func (d *decoder) sampleAnalysis() (Record, error) {
	if err := d.expectFields(4); err != nil {
		return nil, err
	}

	wavelength, err := d.measurement(1, units.FamilyDistance)
	if err != nil {
		return nil, err
	}
	intensity, err := d.float(3)
	if err != nil {
		return nil, err
	}
	return NewSampleAnalysisRecord(wavelength, intensity), nil
}

// navigation decodes repeating (value, unit, direction) groups. A group with
// a time unit is a duration annotation: it has no direction, so only two
// fields are consumed and it yields no movement.
func (d *decoder) navigation() (Record, error) {
	var movements []navigation.Movement

	i := 1
	for i < len(d.fields) {
		if i+1 >= len(d.fields) {
			return nil, d.errorAt(i, errIncomplete)
		}

		value, err := d.float(i)
		if err != nil {
			return nil, err
		}
		family, unit, err := d.unit(i + 1)
		if err != nil {
			return nil, err
		}

		if family == units.FamilyTime {
			i += 2
			continue
		}
		if family != units.FamilyDistance {
			return nil, d.errorAt(i+1, fmt.Errorf("%w: %s, expected %s", errWrongFamily, family, units.FamilyDistance))
		}
		if i+2 >= len(d.fields) {
			return nil, d.errorAt(i+1, errIncomplete)
		}

		direction, err := navigation.ParseDirection(d.fields[i+2])
		if err != nil {
			return nil, d.errorAt(i+2, err)
		}

		movements = append(movements, navigation.Movement{
			Distance:  units.New(value, family, unit),
			Direction: direction,
		})
		i += 3
	}

	if len(movements) == 0 {
		return nil, &ParseError{Line: d.line, Field: -1, Err: errNoMovements}
	}

	return NewNavigationRecord(movements), nil
}

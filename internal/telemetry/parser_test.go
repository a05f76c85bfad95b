package telemetry

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/roman-kulish/sol-telemetry/internal/navigation"
	"github.com/roman-kulish/sol-telemetry/internal/units"
)

func newParser() *Parser {
	return NewParser(units.Default())
}

func TestParser_Temperature(t *testing.T) {
	for i := 0; i < 3; i++ {
		rec, err := newParser().Decode("t,20.5,celsius")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		tr, ok := rec.(*TemperatureRecord)
		if !ok {
			t.Fatalf("Expected *TemperatureRecord, got %T", rec)
		}
		if rec.Kind() != KindTemperature {
			t.Errorf("Expected kind %s, got %s", KindTemperature, rec.Kind())
		}

		kelvin, err := tr.Temperature().ToBase(units.Default())
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if math.Abs(kelvin-293.65) > 1e-9 {
			t.Errorf("Expected 293.65 K, got %v", kelvin)
		}
	}
}

func TestParser_TemperatureAliases(t *testing.T) {
	testCases := []struct {
		line string
		unit units.Unit
	}{
		{"t,15,kelvin", units.Kelvin},
		{"t,15,K", units.Kelvin},
		{"t,-60,C", units.Celsius},
		{"t, 12.5 , Celsius ", units.Celsius},
	}

	for _, tc := range testCases {
		t.Run(tc.line, func(t *testing.T) {
			rec, err := newParser().Decode(tc.line)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got := rec.(*TemperatureRecord).Temperature().Unit; got != tc.unit {
				t.Errorf("Expected unit %s, got %s", tc.unit, got)
			}
		})
	}
}

func TestParser_SampleAnalysis(t *testing.T) {
	rec, err := newParser().Decode("w,589.5,nm,0.97")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	sr, ok := rec.(*SampleAnalysisRecord)
	if !ok {
		t.Fatalf("Expected *SampleAnalysisRecord, got %T", rec)
	}

	want := units.New(589.5, units.FamilyDistance, units.Nanometer)
	if diff := cmp.Diff(want, sr.Wavelength()); diff != "" {
		t.Errorf("Wavelength mismatch (-want +got):\n%s", diff)
	}
	if sr.Intensity() != 0.97 {
		t.Errorf("Expected intensity 0.97, got %v", sr.Intensity())
	}
}

func TestParser_Navigation(t *testing.T) {
	testCases := []struct {
		name string
		line string
		want []navigation.Movement
	}{
		{
			name: "duration groups are skipped",
			line: "d,10,meters,forward,10,minutes,5,meters,right",
			want: []navigation.Movement{
				{Distance: units.Meters(10), Direction: navigation.Forward},
				{Distance: units.Meters(5), Direction: navigation.Right},
			},
		},
		{
			name: "single movement",
			line: "d,3,m,Backward",
			want: []navigation.Movement{
				{Distance: units.Meters(3), Direction: navigation.Backward},
			},
		},
		{
			name: "mixed units and trailing duration",
			line: "d,10.5,meters,forward,10,minutes,43.5,centimeters,right,30,seconds,1.2,kilometers,left,1,hour,63.8,centimeters,right,2,minutes",
			want: []navigation.Movement{
				{Distance: units.Meters(10.5), Direction: navigation.Forward},
				{Distance: units.New(43.5, units.FamilyDistance, units.Centimeter), Direction: navigation.Right},
				{Distance: units.New(1.2, units.FamilyDistance, units.Kilometer), Direction: navigation.Left},
				{Distance: units.New(63.8, units.FamilyDistance, units.Centimeter), Direction: navigation.Right},
			},
		},
		{
			name: "sols annotation",
			line: "d,2,sols,7,km,left",
			want: []navigation.Movement{
				{Distance: units.New(7, units.FamilyDistance, units.Kilometer), Direction: navigation.Left},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec, err := newParser().Decode(tc.line)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			nr, ok := rec.(*NavigationRecord)
			if !ok {
				t.Fatalf("Expected *NavigationRecord, got %T", rec)
			}
			if diff := cmp.Diff(tc.want, nr.Movements()); diff != "" {
				t.Errorf("Movements mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParser_Malformed(t *testing.T) {
	testCases := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"unknown type", "x,1,2"},
		{"temperature missing unit", "t,20"},
		{"temperature extra field", "t,20,C,1"},
		{"temperature empty value", "t,,C"},
		{"temperature empty unit", "t,20,"},
		{"temperature distance unit", "t,20,m"},
		{"sample missing intensity", "w,393,nm"},
		{"sample temperature unit", "w,393,C,0.9"},
		{"sample bad intensity", "w,393,nm,high"},
		{"navigation no groups", "d"},
		{"navigation only duration", "d,10,minutes"},
		{"navigation missing direction", "d,10,meters"},
		{"navigation dangling value", "d,10,meters,forward,5"},
		{"navigation bad direction", "d,10,meters,north"},
		{"navigation direction case", "d,10,meters,FORWARD"},
		{"navigation temperature unit", "d,10,C,forward"},
		{"temperature NaN", "t,NaN,celsius"},
		{"temperature infinity", "t,-Infinity,K"},
		{"navigation Inf", "d,Inf,m,forward"},
		{"sample NaN wavelength", "w,NaN,nm,0.9"},
		{"sample Inf intensity", "w,393,nm,+Inf"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec, err := newParser().Decode(tc.line)
			if err == nil {
				t.Fatalf("Expected error, got record %#v", rec)
			}
			if !errors.Is(err, ErrMalformedRecord) {
				t.Errorf("Expected ErrMalformedRecord, got %v", err)
			}

			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Errorf("Expected *ParseError, got %T", err)
			} else if pe.Line != tc.line {
				t.Errorf("Expected line '%s', got '%s'", tc.line, pe.Line)
			}
		})
	}
}

func TestParser_NumericError(t *testing.T) {
	_, err := newParser().Decode("t,abc,celsius")

	var numErr *strconv.NumError
	if !errors.As(err, &numErr) {
		t.Fatalf("Expected *strconv.NumError, got %v", err)
	}

	var pe *ParseError
	if !errors.As(err, &pe) || pe.Field != 1 || pe.Text != "abc" {
		t.Errorf("Expected field 1 'abc', got %+v", pe)
	}
}

func TestParser_NotFinite(t *testing.T) {
	_, err := newParser().Decode("t,nan,celsius")

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected *ParseError, got %v", err)
	}
	if !errors.Is(err, errNotFinite) || pe.Field != 1 || pe.Text != "nan" {
		t.Errorf("Expected field 1 'nan' not finite, got %+v", pe)
	}
}

func TestParser_UnknownUnit(t *testing.T) {
	_, err := newParser().Decode("t,20,furlongs")
	if !errors.Is(err, units.ErrUnknownUnit) {
		t.Fatalf("Expected ErrUnknownUnit, got %v", err)
	}
	if !errors.Is(err, ErrMalformedRecord) {
		t.Errorf("Expected ErrMalformedRecord, got %v", err)
	}

	_, err = newParser().Decode("d,10,meters,forward,3,fortnights,5,meters,left")
	if !errors.Is(err, units.ErrUnknownUnit) {
		t.Errorf("Expected ErrUnknownUnit for unknown duration unit, got %v", err)
	}
}

func TestNavigationRecord_Immutable(t *testing.T) {
	movements := []navigation.Movement{{Distance: units.Meters(1), Direction: navigation.Forward}}
	rec := NewNavigationRecord(movements)

	movements[0].Direction = navigation.Left
	got := rec.Movements()
	got[0].Direction = navigation.Right

	if d := rec.Movements()[0].Direction; d != navigation.Forward {
		t.Errorf("Expected record to keep Forward, got %s", d)
	}
}

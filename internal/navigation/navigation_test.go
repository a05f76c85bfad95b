package navigation

import (
	"errors"
	"math"
	"testing"

	"github.com/roman-kulish/sol-telemetry/internal/units"
)

func TestNavigation_Accumulation(t *testing.T) {
	var nav Navigation

	err := nav.Apply(units.Default(), []Movement{
		{units.Meters(10), Forward},
		{units.Meters(5), Right},
		{units.Meters(5), Forward},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if p := nav.Position(); p.X != 5 || p.Y != 15 {
		t.Errorf("Expected position (5, 15), got (%v, %v)", p.X, p.Y)
	}
	if h := nav.Heading(); h != 270 {
		t.Errorf("Expected heading 270, got %v", h)
	}
	if d := nav.FinalDistance(); math.Abs(d.Value-math.Sqrt(250)) > 1e-9 || d.Unit != units.Meter {
		t.Errorf("Expected final distance %.2f meters, got %v", math.Sqrt(250), d)
	}
	if d := nav.FinalDirection(); d != Left {
		t.Errorf("Expected final direction Left, got %s", d)
	}
}

func TestNavigation_ConvertsUnits(t *testing.T) {
	var nav Navigation

	err := nav.Apply(units.Default(), []Movement{
		{units.New(1.2, units.FamilyDistance, units.Kilometer), Forward},
		{units.New(50, units.FamilyDistance, units.Centimeter), Backward},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if p := nav.Position(); math.Abs(p.Y-1199.5) > 1e-9 {
		t.Errorf("Expected y 1199.5, got %v", p.Y)
	}
}

func TestNavigation_PartialApply(t *testing.T) {
	var nav Navigation

	err := nav.Apply(units.Default(), []Movement{
		{units.Meters(3), Left},
		{units.New(1, units.FamilyTemperature, units.Kelvin), Forward},
		{units.Meters(7), Forward},
	})
	if !errors.Is(err, units.ErrUnknownUnit) {
		t.Fatalf("Expected ErrUnknownUnit, got %v", err)
	}

	// first movement stays applied
	if p := nav.Position(); p.X != -3 || p.Y != 0 {
		t.Errorf("Expected position (-3, 0), got (%v, %v)", p.X, p.Y)
	}
	if h := nav.Heading(); h != 90 {
		t.Errorf("Expected heading 90, got %v", h)
	}
}

func TestNavigation_Reset(t *testing.T) {
	var nav Navigation
	_ = nav.Apply(units.Default(), []Movement{{units.Meters(4), Right}, {units.Meters(3), Backward}})

	nav.Reset()

	if d := nav.FinalDistance(); d.Value != 0 {
		t.Errorf("Expected final distance 0, got %v", d.Value)
	}
	if d := nav.FinalDirection(); d != Forward {
		t.Errorf("Expected final direction Forward, got %s", d)
	}
}

func TestHeading_Rotate(t *testing.T) {
	testCases := []struct {
		start   Heading
		degrees float64
		want    Heading
	}{
		{0, 90, 90},
		{0, -90, 270},
		{270, 90, 0},
		{90, -180, 270},
		{0, 720, 0},
		{10, -370, 0},
	}

	for _, tc := range testCases {
		if got := tc.start.Rotate(tc.degrees); got != tc.want {
			t.Errorf("Rotate(%v, %v): expected %v, got %v", tc.start, tc.degrees, tc.want, got)
		}
	}
}

func TestHeading_Direction(t *testing.T) {
	testCases := []struct {
		heading Heading
		want    Direction
	}{
		{0, Forward},
		{44.9, Forward},
		{45, Right},
		{134.9, Right},
		{135, Backward},
		{224.9, Backward},
		{225, Left},
		{314.9, Left},
		{315, Forward},
		{359.9, Forward},
	}

	for _, tc := range testCases {
		if got := tc.heading.Direction(); got != tc.want {
			t.Errorf("Heading %v: expected %s, got %s", tc.heading, tc.want, got)
		}
	}
}

func TestParseDirection(t *testing.T) {
	for _, s := range []string{"Forward", "forward", "Backward", "backward", "Left", "left", "Right", "right"} {
		if _, err := ParseDirection(s); err != nil {
			t.Errorf("ParseDirection(%q): unexpected error: %v", s, err)
		}
	}
	for _, s := range []string{"FORWARD", "north", "", "fwd"} {
		if _, err := ParseDirection(s); err == nil {
			t.Errorf("ParseDirection(%q): expected error", s)
		}
	}
}

func TestPosition_DistanceTo(t *testing.T) {
	a := Position{X: 1, Y: 1}
	b := Position{X: 4, Y: 5}
	if d := a.DistanceTo(b); d != 5 {
		t.Errorf("Expected 5, got %v", d)
	}
}

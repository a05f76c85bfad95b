package rover

import (
	"errors"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/roman-kulish/sol-telemetry/internal/navigation"
	"github.com/roman-kulish/sol-telemetry/internal/observability"
	"github.com/roman-kulish/sol-telemetry/internal/telemetry"
	"github.com/roman-kulish/sol-telemetry/internal/units"
)

type bogusRecord struct{ telemetry.Record }

func (bogusRecord) Kind() telemetry.Kind { return telemetry.Kind(99) }

func feed(t *testing.T, rv *Rover, lines ...string) {
	t.Helper()

	for _, line := range lines {
		record, err := rv.Decode(line)
		if err != nil {
			t.Fatalf("Decode '%s': %v", line, err)
		}
		if err = rv.Apply(record); err != nil {
			t.Fatalf("Apply '%s': %v", line, err)
		}
	}
}

func TestRover_Snapshot(t *testing.T) {
	rv := New()
	feed(t, rv,
		"d,10,m,forward",
		"t,20,C",
		"d,5,meters,right,2,minutes,5,m,forward",
		"w,393,nm,0.95",
		"t,-10,celsius",
	)

	s := rv.Snapshot(4)

	if s.Sol != 4 {
		t.Errorf("Expected Sol 4, got %d", s.Sol)
	}
	if math.Abs(s.Temperature.Mean-278.15) > 1e-9 {
		t.Errorf("Expected mean 278.15 K, got %v", s.Temperature.Mean)
	}
	if s.Temperature.Count != 2 {
		t.Errorf("Expected 2 samples, got %d", s.Temperature.Count)
	}
	if math.Abs(s.Navigation.FinalDistance.Value-math.Sqrt(250)) > 1e-9 {
		t.Errorf("Expected distance %v, got %v", math.Sqrt(250), s.Navigation.FinalDistance.Value)
	}
	if s.Navigation.FinalDirection != navigation.Left {
		t.Errorf("Expected Left, got %s", s.Navigation.FinalDirection)
	}
	if s.Sample.Label != "Iron" {
		t.Errorf("Expected Iron, got %s", s.Sample)
	}
}

func TestRover_ApplyTouchesOnlyMatchingSubsystem(t *testing.T) {
	rv := New()
	feed(t, rv, "t,300,K")

	s := rv.Snapshot(1)
	if s.Navigation.FinalDistance.Value != 0 || s.Navigation.FinalDirection != navigation.Forward {
		t.Errorf("Navigation changed by temperature record: %+v", s.Navigation)
	}
	if s.Sample.IsKnown() {
		t.Errorf("Sample changed by temperature record: %s", s.Sample)
	}
}

func TestRover_Reset(t *testing.T) {
	rv := New()
	feed(t, rv, "d,3,km,left", "t,1,K", "w,589.5,nm,0.9")

	rv.Reset()

	s := rv.Snapshot(2)
	if s.Navigation.FinalDistance.Value != 0 {
		t.Errorf("Expected distance 0, got %v", s.Navigation.FinalDistance.Value)
	}
	if s.Navigation.FinalDirection != navigation.Forward {
		t.Errorf("Expected Forward, got %s", s.Navigation.FinalDirection)
	}
	if s.Temperature.Count != 0 || s.Temperature.Mean != 0 || s.Temperature.Median != 0 {
		t.Errorf("Expected empty temperature summary, got %+v", s.Temperature)
	}
	if s.Sample.IsKnown() {
		t.Errorf("Expected Unknown sample, got %s", s.Sample)
	}
}

func TestRover_UnsupportedRecord(t *testing.T) {
	rv := New()
	err := rv.Apply(bogusRecord{})
	if !errors.Is(err, ErrUnsupportedRecord) {
		t.Errorf("Expected ErrUnsupportedRecord, got %v", err)
	}
}

func TestRover_ApplyError(t *testing.T) {
	rv := New()

	bad := telemetry.NewTemperatureRecord(units.Meters(3))
	if err := rv.Apply(bad); !errors.Is(err, units.ErrUnknownUnit) {
		t.Errorf("Expected ErrUnknownUnit, got %v", err)
	}
	if rv.Snapshot(1).Temperature.Count != 0 {
		t.Error("Rejected record must not add a sample")
	}
}

func TestRover_Metrics(t *testing.T) {
	c, err := observability.NewCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	rv := New(WithMetrics(c))
	feed(t, rv, "t,1,K", "t,2,K", "d,1,m,forward")

	if _, err = rv.Decode("x,1,2"); err == nil {
		t.Fatal("Expected decode error")
	}
	_ = rv.Apply(telemetry.NewTemperatureRecord(units.Meters(1)))

	if got := testutil.ToFloat64(c.RecordsApplied.WithLabelValues("temperature")); got != 2 {
		t.Errorf("Expected 2 temperature records, got %v", got)
	}
	if got := testutil.ToFloat64(c.RecordsApplied.WithLabelValues("navigation")); got != 1 {
		t.Errorf("Expected 1 navigation record, got %v", got)
	}
	if got := testutil.ToFloat64(c.DecodeErrors); got != 1 {
		t.Errorf("Expected 1 decode error, got %v", got)
	}
	if got := testutil.ToFloat64(c.ApplyErrors.WithLabelValues("temperature")); got != 1 {
		t.Errorf("Expected 1 apply error, got %v", got)
	}
}

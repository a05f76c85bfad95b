package observability

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the Prometheus metrics of telemetry ingestion. A nil
// *Collector is valid and records nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	RecordsApplied *prometheus.CounterVec
	DecodeErrors   prometheus.Counter
	ApplyErrors    *prometheus.CounterVec
	SolsFinalized  prometheus.Counter
	CurrentSol     prometheus.Gauge
}

// NewCollector registers ingestion metrics against the provided registerer,
// defaulting to the global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	applied, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "telemetry_records_applied_total",
		Help: "Total number of telemetry records applied to a subsystem, labeled by record kind.",
	}, []string{"kind"}), "telemetry_records_applied_total")
	if err != nil {
		return nil, err
	}

	decodeErrors, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "telemetry_decode_errors_total",
		Help: "Total number of telemetry lines that failed to decode.",
	}), "telemetry_decode_errors_total")
	if err != nil {
		return nil, err
	}

	applyErrors, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "telemetry_apply_errors_total",
		Help: "Total number of decoded records that failed to apply, labeled by record kind.",
	}, []string{"kind"}), "telemetry_apply_errors_total")
	if err != nil {
		return nil, err
	}

	finalized, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sols_finalized_total",
		Help: "Total number of finalized Sols.",
	}), "sols_finalized_total")
	if err != nil {
		return nil, err
	}

	current, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sol_current",
		Help: "Number of the Sol currently collecting telemetry.",
	}), "sol_current")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:       gatherer,
		RecordsApplied: applied,
		DecodeErrors:   decodeErrors,
		ApplyErrors:    applyErrors,
		SolsFinalized:  finalized,
		CurrentSol:     current,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// RecordApplied counts a record of the given kind applied to the rover
func (c *Collector) RecordApplied(kind string) {
	if c == nil {
		return
	}
	c.RecordsApplied.WithLabelValues(kind).Inc()
}

// RecordDecodeError counts a telemetry line that failed to decode
func (c *Collector) RecordDecodeError() {
	if c == nil {
		return
	}
	c.DecodeErrors.Inc()
}

// RecordApplyError counts a record of the given kind the rover rejected
func (c *Collector) RecordApplyError(kind string) {
	if c == nil {
		return
	}
	c.ApplyErrors.WithLabelValues(kind).Inc()
}

// SolFinalized counts a finalized Sol and moves the current Sol gauge to next
func (c *Collector) SolFinalized(next int) {
	if c == nil {
		return
	}
	c.SolsFinalized.Inc()
	c.CurrentSol.Set(float64(next))
}

// SolStarted moves the current Sol gauge without counting a finalized Sol
func (c *Collector) SolStarted(current int) {
	if c == nil {
		return
	}
	c.CurrentSol.Set(float64(current))
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T, name string) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			return c, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return c, err
	}
	return c, nil
}

// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Simulation outcomes recorded in SimulationsTotal.
const (
	OutcomeOK       = "ok"
	OutcomeRefused  = "refused"
	OutcomeBusy     = "busy"
	OutcomeCanceled = "canceled"
	OutcomeError    = "error"
)

// Metrics groups the service collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	RequestsTotal      *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	SimulationsTotal   *prometheus.CounterVec
	SimulationDuration prometheus.Histogram
	SimulatedRuns      prometheus.Counter
	CappedRuns         prometheus.Counter
	SimulationsActive  prometheus.Gauge
	RuleReloads        *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "enchant_requests_total",
			Help: "Engine requests by operation and result.",
		}, []string{"op", "result"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "enchant_request_duration_seconds",
			Help:    "Latency of engine requests by operation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		SimulationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "enchant_simulations_total",
			Help: "Monte Carlo simulation requests by outcome.",
		}, []string{"outcome"}),
		SimulationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "enchant_simulation_duration_seconds",
			Help:    "Wall time of completed simulations.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		SimulatedRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "enchant_simulated_runs_total",
			Help: "Trials executed by completed simulations.",
		}),
		CappedRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "enchant_capped_runs_total",
			Help: "Trials stopped by the attempt cap.",
		}),
		SimulationsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "enchant_simulations_in_flight",
			Help: "Simulations currently running.",
		}),
		RuleReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "enchant_rule_reloads_total",
			Help: "Rule table reloads by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.SimulationsTotal,
		m.SimulationDuration,
		m.SimulatedRuns,
		m.CappedRuns,
		m.SimulationsActive,
		m.RuleReloads,
	)
	return m
}

// ObserveRequest records one finished request.
func (m *Metrics) ObserveRequest(op string, err error, took time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.RequestsTotal.WithLabelValues(op, result).Inc()
	m.RequestDuration.WithLabelValues(op).Observe(took.Seconds())
}

// SimulationStarted marks a simulation in flight; call the returned func when it ends.
func (m *Metrics) SimulationStarted() func() {
	if m == nil {
		return func() {}
	}
	m.SimulationsActive.Inc()
	return m.SimulationsActive.Dec
}

// ObserveSimulation records the outcome of a simulation request. runs and
// capped are only counted for OutcomeOK.
func (m *Metrics) ObserveSimulation(outcome string, runs, capped int, took time.Duration) {
	if m == nil {
		return
	}
	m.SimulationsTotal.WithLabelValues(outcome).Inc()
	if outcome != OutcomeOK {
		return
	}
	m.SimulationDuration.Observe(took.Seconds())
	m.SimulatedRuns.Add(float64(runs))
	m.CappedRuns.Add(float64(capped))
}

// ObserveReload records a rule reload attempt.
func (m *Metrics) ObserveReload(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.RuleReloads.WithLabelValues("error").Inc()
		return
	}
	m.RuleReloads.WithLabelValues("ok").Inc()
}

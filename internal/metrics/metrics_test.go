package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRequest(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveRequest("rate", nil, time.Millisecond)
	m.ObserveRequest("rate", nil, time.Millisecond)
	m.ObserveRequest("rate", errors.New("boom"), time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("rate", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("rate", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))
}

func TestObserveSimulation(t *testing.T) {
	m := New(prometheus.NewRegistry())
	done := m.SimulationStarted()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SimulationsActive))
	done()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SimulationsActive))

	m.ObserveSimulation(OutcomeOK, 1000, 3, time.Second)
	m.ObserveSimulation(OutcomeRefused, 500, 0, 0)

	assert.Equal(t, 1000.0, testutil.ToFloat64(m.SimulatedRuns))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.CappedRuns))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SimulationsTotal.WithLabelValues(OutcomeRefused)))
}

func TestObserveReload(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveReload(nil)
	m.ObserveReload(errors.New("bad yaml"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RuleReloads.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RuleReloads.WithLabelValues("error")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("rate", nil, 0)
		m.ObserveSimulation(OutcomeOK, 1, 0, 0)
		m.ObserveReload(nil)
		m.SimulationStarted()()
	})
}

func TestDoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}

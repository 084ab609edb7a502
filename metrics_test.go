package main

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveJob(AlgorithmRRT, successResult("x", nil), 0)
		m.SetInFlight(true)
		m.Rejected()
	})
}

func TestMetricsJobOutcomes(t *testing.T) {
	m := NewMetrics()
	m.ObserveJob(AlgorithmRRT, successResult("a", Path{{X: 1, Y: 5}, {X: 9, Y: 5}}), time.Second)
	m.ObserveJob(AlgorithmRRT, successResult("b", Path{}), time.Second)
	m.ObserveJob(AlgorithmPRM, errorResult("c", assert.AnError), 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobs.WithLabelValues(string(AlgorithmRRT), string(KindSuccess))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobs.WithLabelValues(string(AlgorithmRRT), "empty")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobs.WithLabelValues(string(AlgorithmPRM), string(KindError))))

	m.SetInFlight(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.inFlight))
	m.SetInFlight(false)
	assert.Zero(t, testutil.ToFloat64(m.inFlight))

	m.Rejected()
	m.Rejected()
	assert.Equal(t, 2.0, testutil.ToFloat64(m.rejected))
}

package main

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects planning job counters on its own registry
type Metrics struct {
	registry *prometheus.Registry

	jobs      *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	waypoints *prometheus.HistogramVec
	inFlight  prometheus.Gauge
	rejected  prometheus.Counter
}

// NewMetrics creates and registers the planner collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		jobs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planner_jobs_total",
				Help: "Planning jobs processed by the worker, by algorithm and outcome",
			},
			[]string{"algorithm", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "planner_job_duration_seconds",
				Help:    "Wall-clock time from job start to result",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
			},
			[]string{"algorithm"},
		),
		waypoints: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "planner_path_waypoints",
				Help:    "Number of waypoints in successful results",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
			[]string{"algorithm"},
		),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "planner_jobs_in_flight",
			Help: "1 while a planning job is outstanding",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planner_requests_rejected_total",
			Help: "Plan requests refused because a job was already in flight",
		}),
	}
	m.registry.MustRegister(m.jobs, m.duration, m.waypoints, m.inFlight, m.rejected)
	return m
}

// ObserveJob records one finished job
func (m *Metrics) ObserveJob(algorithm Algorithm, result JobResult, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := string(result.Kind)
	if result.Kind == KindSuccess && len(result.Path) == 0 {
		outcome = "empty"
	}
	m.jobs.WithLabelValues(string(algorithm), outcome).Inc()
	m.duration.WithLabelValues(string(algorithm)).Observe(elapsed.Seconds())
	if len(result.Path) > 0 {
		m.waypoints.WithLabelValues(string(algorithm)).Observe(float64(len(result.Path)))
	}
}

// SetInFlight reports whether a job is outstanding
func (m *Metrics) SetInFlight(inFlight bool) {
	if m == nil {
		return
	}
	if inFlight {
		m.inFlight.Set(1)
	} else {
		m.inFlight.Set(0)
	}
}

// Rejected counts a plan request refused while another was in flight
func (m *Metrics) Rejected() {
	if m == nil {
		return
	}
	m.rejected.Inc()
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Package metrics exposes Prometheus collectors for matching runs.
package metrics

import (
	"errors"
	"time"

	"github.com/spigell/cvbank/internal/matching"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cvbank"

// Metrics records run outcomes and recruiter activity.
type Metrics struct {
	runs          *prometheus.CounterVec
	runDuration   prometheus.Histogram
	candidates    prometheus.Histogram
	statusChanges *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "match_runs_total",
				Help:      "Matching runs by outcome",
			},
			[]string{"outcome"},
		),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_run_duration_seconds",
			Help:      "Wall time of a matching run",
			Buckets:   prometheus.DefBuckets,
		}),
		candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_run_candidates",
			Help:      "Active candidates scored per run",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		statusChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "match_status_changes_total",
				Help:      "Recruiter status changes by new status",
			},
			[]string{"status"},
		),
	}

	reg.MustRegister(m.runs, m.runDuration, m.candidates, m.statusChanges)
	return m
}

// ObserveRun records one run.
func (m *Metrics) ObserveRun(d time.Duration, candidates int, err error) {
	outcome := Outcome(err)
	m.runs.WithLabelValues(outcome).Inc()
	if outcome != "ok" {
		return
	}
	m.runDuration.Observe(d.Seconds())
	m.candidates.Observe(float64(candidates))
}

// ObserveStatusChange records one recruiter decision.
func (m *Metrics) ObserveStatusChange(status string) {
	m.statusChanges.WithLabelValues(status).Inc()
}

// Outcome maps a run error to a low-cardinality label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, matching.ErrNotFound):
		return "not_found"
	case errors.Is(err, matching.ErrAccessDenied):
		return "access_denied"
	case errors.Is(err, matching.ErrStorageUnavailable):
		return "storage_unavailable"
	default:
		return "error"
	}
}

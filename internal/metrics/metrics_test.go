package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/spigell/cvbank/internal/matching"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRunCountsOutcomes(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRun(time.Second, 10, nil)
	m.ObserveRun(time.Second, 0, fmt.Errorf("fetch: %w", matching.ErrAccessDenied))
	m.ObserveRun(time.Second, 0, errors.New("boom"))

	if got := testutil.ToFloat64(m.runs.WithLabelValues("ok")); got != 1 {
		t.Fatalf("expected 1 ok run, got %v", got)
	}
	if got := testutil.ToFloat64(m.runs.WithLabelValues("access_denied")); got != 1 {
		t.Fatalf("expected 1 denied run, got %v", got)
	}
	if got := testutil.ToFloat64(m.runs.WithLabelValues("error")); got != 1 {
		t.Fatalf("expected 1 failed run, got %v", got)
	}
}

func TestObserveStatusChange(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveStatusChange("shortlisted")
	m.ObserveStatusChange("shortlisted")

	if got := testutil.ToFloat64(m.statusChanges.WithLabelValues("shortlisted")); got != 2 {
		t.Fatalf("expected 2 changes, got %v", got)
	}
}

func TestOutcome(t *testing.T) {
	cases := map[string]error{
		"ok":                  nil,
		"not_found":           matching.ErrNotFound,
		"storage_unavailable": fmt.Errorf("x: %w", matching.ErrStorageUnavailable),
	}
	for want, err := range cases {
		if got := Outcome(err); got != want {
			t.Fatalf("Outcome(%v) = %q, want %q", err, got, want)
		}
	}
}

package scheduler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spigell/cvbank/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type countingRunner struct {
	calls atomic.Int32
	block chan struct{}
	err   error
}

func (r *countingRunner) RunActive(context.Context) (service.RunSummary, error) {
	r.calls.Add(1)
	if r.block != nil {
		<-r.block
	}
	return service.RunSummary{Jobs: 1, Matched: 3}, r.err
}

func TestTickLogsSummary(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	runner := &countingRunner{}
	s := New(runner, "", zap.New(core))

	s.Tick(context.Background())

	if runner.calls.Load() != 1 {
		t.Fatalf("expected one pass, got %d", runner.calls.Load())
	}
	entries := logs.FilterMessage("re-matching finished").All()
	if len(entries) != 1 {
		t.Fatalf("expected a summary log entry")
	}
	if entries[0].ContextMap()["matches"] != int64(3) {
		t.Fatalf("unexpected summary: %v", entries[0].ContextMap())
	}
}

func TestTickReportsErrors(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := New(&countingRunner{err: errors.New("job 1: boom")}, "", zap.New(core))

	s.Tick(context.Background())

	if logs.FilterMessage("re-matching finished with errors").Len() != 1 {
		t.Fatalf("expected an error summary")
	}
}

func TestTickSkipsOverlappingPass(t *testing.T) {
	runner := &countingRunner{block: make(chan struct{})}
	s := New(runner, "", nil)

	done := make(chan struct{})
	go func() {
		s.Tick(context.Background())
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for runner.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	s.Tick(context.Background())
	close(runner.block)
	<-done

	if runner.calls.Load() != 1 {
		t.Fatalf("expected overlapping tick to be skipped, got %d passes", runner.calls.Load())
	}
}

func TestStartRejectsBadSpec(t *testing.T) {
	s := New(&countingRunner{}, "every now and then", nil)
	if err := s.Start(context.Background()); err == nil {
		t.Fatalf("expected an error for an invalid spec")
	}
}

func TestStartRunsImmediately(t *testing.T) {
	runner := &countingRunner{}
	s := New(runner, "@every 1h", nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Stop()

	if runner.calls.Load() != 1 {
		t.Fatalf("expected the initial pass, got %d", runner.calls.Load())
	}
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "cvbank_test_total", Help: "test"}))

	h := NewHandler(pinger{}, reg)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected health response: %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected metrics status: %d", rec.Code)
	}

	down := NewHandler(pinger{err: errors.New("down")}, reg)
	rec = httptest.NewRecorder()
	down.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

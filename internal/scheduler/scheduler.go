// Package scheduler re-runs matching for every active job on a cron spec.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/spigell/cvbank/internal/service"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultSpec re-matches every six hours.
const DefaultSpec = "@every 6h"

// Runner is the part of the service the scheduler drives.
type Runner interface {
	RunActive(ctx context.Context) (service.RunSummary, error)
}

// Scheduler wraps robfig/cron and owns the re-matching loop.
type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	spec   string
	logger *zap.Logger

	mu      sync.Mutex
	running bool
	wg      sync.WaitGroup
}

// New creates a Scheduler firing on spec. An empty spec means DefaultSpec.
func New(runner Runner, spec string, logger *zap.Logger) *Scheduler {
	if spec == "" {
		spec = DefaultSpec
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cronLogger{logger: logger})),
		runner: runner,
		spec:   spec,
		logger: logger,
	}
}

// Start registers the job, starts cron and fires one pass right away so
// results exist without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.Tick(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc(%q): %w", s.spec, err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", zap.String("spec", s.spec))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Tick(ctx)
	}()

	return nil
}

// Stop stops cron and waits for a pass in flight to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

// Tick runs one pass over active jobs. A tick that fires while the previous
// pass is still running is skipped.
func (s *Scheduler) Tick(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("previous pass still running, skipping tick")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	s.logger.Info("re-matching active jobs")
	summary, err := s.runner.RunActive(ctx)
	fields := []zap.Field{
		zap.Int("jobs", summary.Jobs),
		zap.Int("matches", summary.Matched),
		zap.Int("failed", summary.Failed),
	}
	if err != nil {
		s.logger.Error("re-matching finished with errors", append(fields, zap.Error(err))...)
		return
	}
	s.logger.Info("re-matching finished", fields...)
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, zap.Any("details", keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, zap.Error(err), zap.Any("details", keysAndValues))
}

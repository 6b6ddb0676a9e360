// Package service runs matching for a job and applies recruiter decisions
// to the stored results.
package service

import (
	"context"
	"time"

	"github.com/spigell/cvbank/internal/lock"
	"github.com/spigell/cvbank/internal/matching"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultWorkers = 4

// Store is the storage collaborator of the service.
type Store interface {
	FetchJob(ctx context.Context, jobID int64) (*matching.JobRequirement, error)
	FetchActiveCandidates(ctx context.Context) ([]matching.CandidateProfile, error)
	ListActiveJobs(ctx context.Context) ([]matching.JobRequirement, error)

	// ReplaceResultsForJob deletes every result of the job and inserts
	// results in one transaction.
	ReplaceResultsForJob(ctx context.Context, jobID int64, results []matching.MatchResult) error
	GetResult(ctx context.Context, matchID uuid.UUID) (*matching.MatchResult, error)
	UpdateResultStatus(ctx context.Context, matchID uuid.UUID, status matching.RecruiterStatus, reviewerID int64, at time.Time) error
	UpdateResultNotes(ctx context.Context, matchID uuid.UUID, notes string, reviewerID int64, at time.Time) error
	// ListResultsForJob returns results joined with their candidates,
	// highest overall score first.
	ListResultsForJob(ctx context.Context, jobID int64) ([]matching.RankedMatch, error)
}

// Locker serialises runs for the same job.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// Publisher announces finished runs and status changes.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload any) error
}

// Recorder collects run and review metrics.
type Recorder interface {
	ObserveRun(d time.Duration, candidates int, err error)
	ObserveStatusChange(status string)
}

// Service is the match orchestrator.
type Service struct {
	store     Store
	locker    Locker
	publisher Publisher
	metrics   Recorder
	logger    *zap.Logger

	workers int
	strict  bool
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLocker replaces the default in-process job lock.
func WithLocker(l Locker) Option {
	return func(s *Service) {
		if l != nil {
			s.locker = l
		}
	}
}

// WithPublisher sets where run events go. Events are dropped by default.
func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithRecorder sets the metrics sink.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.metrics = r
		}
	}
}

// WithWorkers bounds the number of candidates scored concurrently.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithStrictTransitions enables the recruiter status workflow. Without it
// any reviewable status may follow any other.
func WithStrictTransitions(strict bool) Option {
	return func(s *Service) {
		s.strict = strict
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New builds a Service on top of store.
func New(store Store, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Service{
		store:     store,
		locker:    lock.NewLocal(),
		publisher: nopPublisher{},
		metrics:   nopRecorder{},
		logger:    logger,
		workers:   defaultWorkers,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// authorizeJob loads the job and checks that requesterID owns it.
func (s *Service) authorizeJob(ctx context.Context, jobID, requesterID int64) (*matching.JobRequirement, error) {
	job, err := s.store.FetchJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.RecruiterID != requesterID {
		return nil, matching.ErrAccessDenied
	}
	return job, nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, any) error { return nil }

type nopRecorder struct{}

func (nopRecorder) ObserveRun(time.Duration, int, error) {}
func (nopRecorder) ObserveStatusChange(string)           {}

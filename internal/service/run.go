package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spigell/cvbank/internal/events"
	"github.com/spigell/cvbank/internal/logger"
	"github.com/spigell/cvbank/internal/matching"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RunResult reports a finished run.
type RunResult struct {
	Success    bool `json:"success"`
	MatchCount int  `json:"matchCount"`
}

// Run scores every active candidate against the job and replaces the job's
// previous results. Reviewer state of the old results is discarded.
//
// The job must exist (ErrNotFound) and belong to requesterID
// (ErrAccessDenied); nothing is written otherwise.
func (s *Service) Run(ctx context.Context, jobID, requesterID int64) (res RunResult, err error) {
	log := logger.WithFields(s.logger, logger.JobFields(jobID, requesterID)...)
	start := s.now()
	candidates := 0
	defer func() {
		s.metrics.ObserveRun(s.now().Sub(start), candidates, err)
	}()

	job, err := s.authorizeJob(ctx, jobID, requesterID)
	if err != nil {
		log.Warn("matching rejected", zap.Error(err))
		return RunResult{}, err
	}

	release, err := s.locker.Acquire(ctx, lockKey(jobID))
	if err != nil {
		return RunResult{}, fmt.Errorf("locking job %d: %w", jobID, err)
	}
	defer release()

	pool, err := s.store.FetchActiveCandidates(ctx)
	if err != nil {
		return RunResult{}, fmt.Errorf("fetching candidates: %w", err)
	}
	candidates = len(pool)
	log.Debug("scoring candidates", zap.Int("candidates", candidates), zap.Int("workers", s.workers))

	results, err := s.score(ctx, *job, pool)
	if err != nil {
		return RunResult{}, err
	}

	if err := s.store.ReplaceResultsForJob(ctx, jobID, results); err != nil {
		return RunResult{}, fmt.Errorf("storing results: %w", err)
	}

	log.Info("matching finished",
		zap.Int("matches", len(results)),
		zap.Duration("took", s.now().Sub(start)),
	)

	payload := events.MatchingCompleted{JobID: jobID, RequesterID: requesterID, MatchCount: len(results)}
	if err := s.publisher.Publish(ctx, events.ChannelMatchingCompleted, payload); err != nil {
		log.Warn("publishing run event failed", zap.Error(err))
	}

	return RunResult{Success: true, MatchCount: len(results)}, nil
}

// score computes one result per candidate, preserving the candidate order.
func (s *Service) score(ctx context.Context, job matching.JobRequirement, pool []matching.CandidateProfile) ([]matching.MatchResult, error) {
	now := s.now()
	results := make([]matching.MatchResult, len(pool))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, c := range pool {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = matching.NewMatchResult(job.ID, c.ID, matching.Compute(job, c), now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scoring candidates: %w", err)
	}

	return results, nil
}

// RunSummary reports a pass over all active jobs.
type RunSummary struct {
	Jobs    int
	Matched int
	Failed  int
}

// RunActive re-runs matching for every active job on behalf of its owner.
// A failing job does not stop the pass; all failures are returned joined.
func (s *Service) RunActive(ctx context.Context) (RunSummary, error) {
	jobs, err := s.store.ListActiveJobs(ctx)
	if err != nil {
		return RunSummary{}, fmt.Errorf("listing active jobs: %w", err)
	}

	summary := RunSummary{Jobs: len(jobs)}
	var errs []error
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		res, err := s.Run(ctx, job.ID, job.RecruiterID)
		if err != nil {
			summary.Failed++
			errs = append(errs, fmt.Errorf("job %d: %w", job.ID, err))
			continue
		}
		summary.Matched += res.MatchCount
	}

	return summary, errors.Join(errs...)
}

func lockKey(jobID int64) string {
	return "cvbank:match-run:" + strconv.FormatInt(jobID, 10)
}

// Package memory is an in-process store used by offline scoring and tests.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/spigell/cvbank/internal/matching"

	"github.com/google/uuid"
)

// Store keeps jobs, candidates and match results in maps guarded by one lock.
// The zero value is not usable; call New.
type Store struct {
	mu         sync.RWMutex
	jobs       map[int64]matching.JobRequirement
	candidates map[int64]matching.CandidateProfile
	results    map[uuid.UUID]matching.MatchResult
}

func New() *Store {
	return &Store{
		jobs:       make(map[int64]matching.JobRequirement),
		candidates: make(map[int64]matching.CandidateProfile),
		results:    make(map[uuid.UUID]matching.MatchResult),
	}
}

// PutJob inserts or replaces a job.
func (s *Store) PutJob(job matching.JobRequirement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

// PutCandidate inserts or replaces a candidate profile.
func (s *Store) PutCandidate(c matching.CandidateProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates[c.ID] = c
}

// DeleteCandidate removes a profile, leaving its results dangling.
func (s *Store) DeleteCandidate(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.candidates, id)
}

func (s *Store) FetchJob(_ context.Context, jobID int64) (*matching.JobRequirement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, fmt.Errorf("job %d: %w", jobID, matching.ErrNotFound)
	}
	return &job, nil
}

// FetchActiveCandidates returns active profiles ordered by id. A profile
// without a status counts as active.
func (s *Store) FetchActiveCandidates(_ context.Context) ([]matching.CandidateProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]matching.CandidateProfile, 0, len(s.candidates))
	for _, c := range s.candidates {
		if c.Status == "" || c.Status == matching.ProfileStatusActive {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b matching.CandidateProfile) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *Store) ListActiveJobs(_ context.Context) ([]matching.JobRequirement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]matching.JobRequirement, 0, len(s.jobs))
	for _, j := range s.jobs {
		if j.Status == matching.JobStatusActive {
			out = append(out, j)
		}
	}
	slices.SortFunc(out, func(a, b matching.JobRequirement) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *Store) ReplaceResultsForJob(_ context.Context, jobID int64, results []matching.MatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, r := range s.results {
		if r.JobID == jobID {
			delete(s.results, id)
		}
	}
	for _, r := range results {
		r.JobID = jobID
		s.results[r.ID] = r
	}
	return nil
}

func (s *Store) GetResult(_ context.Context, matchID uuid.UUID) (*matching.MatchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.results[matchID]
	if !ok {
		return nil, fmt.Errorf("match %s: %w", matchID, matching.ErrNotFound)
	}
	return &r, nil
}

func (s *Store) UpdateResultStatus(_ context.Context, matchID uuid.UUID, status matching.RecruiterStatus, reviewerID int64, at time.Time) error {
	return s.update(matchID, func(r *matching.MatchResult) {
		r.RecruiterStatus = status
		r.ReviewedBy = &reviewerID
		r.ReviewedAt = &at
		r.UpdatedAt = at
	})
}

func (s *Store) UpdateResultNotes(_ context.Context, matchID uuid.UUID, notes string, reviewerID int64, at time.Time) error {
	return s.update(matchID, func(r *matching.MatchResult) {
		r.RecruiterNotes = notes
		r.ReviewedBy = &reviewerID
		r.ReviewedAt = &at
		r.UpdatedAt = at
	})
}

func (s *Store) update(matchID uuid.UUID, fn func(*matching.MatchResult)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.results[matchID]
	if !ok {
		return fmt.Errorf("match %s: %w", matchID, matching.ErrNotFound)
	}
	fn(&r)
	s.results[matchID] = r
	return nil
}

// ListResultsForJob joins results with their candidates, best first. Ties
// are broken by candidate id so the order is stable.
func (s *Store) ListResultsForJob(_ context.Context, jobID int64) ([]matching.RankedMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]matching.RankedMatch, 0)
	for _, r := range s.results {
		if r.JobID != jobID {
			continue
		}
		c, ok := s.candidates[r.CandidateID]
		if !ok {
			continue
		}
		out = append(out, matching.RankedMatch{MatchResult: r, Candidate: c})
	}

	slices.SortFunc(out, func(a, b matching.RankedMatch) int {
		if c := cmp.Compare(b.Scores.Overall, a.Scores.Overall); c != 0 {
			return c
		}
		return cmp.Compare(a.CandidateID, b.CandidateID)
	})
	return out, nil
}

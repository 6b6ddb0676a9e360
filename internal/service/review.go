package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/cvbank/internal/events"
	"github.com/spigell/cvbank/internal/logger"
	"github.com/spigell/cvbank/internal/matching"
	"github.com/spigell/cvbank/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const notesLogLimit = 64

// UpdateStatus records a recruiter decision on one match.
//
// Only shortlisted, contacted and rejected are accepted. The reviewer must own
// the job the match belongs to. A concurrent Run for the same job may replace
// the match in between; the update then fails with ErrNotFound.
func (s *Service) UpdateStatus(ctx context.Context, matchID uuid.UUID, status string, reviewerID int64) (*matching.MatchResult, error) {
	log := logger.WithFields(s.logger, logger.MatchFields(matchID.String(), reviewerID)...)

	next, err := matching.ParseReviewStatus(status)
	if err != nil {
		return nil, err
	}

	m, err := s.authorizeMatch(ctx, matchID, reviewerID)
	if err != nil {
		log.Warn("status update rejected", zap.Error(err))
		return nil, err
	}

	if s.strict && !matching.IsTransitionAllowed(m.RecruiterStatus, next) {
		return nil, fmt.Errorf("%w: %s to %s", matching.ErrForbiddenTransition, m.RecruiterStatus, next)
	}

	at := s.now()
	if err := s.store.UpdateResultStatus(ctx, matchID, next, reviewerID, at); err != nil {
		return nil, fmt.Errorf("updating status: %w", err)
	}

	previous := m.RecruiterStatus
	m.RecruiterStatus = next
	m.ReviewedBy = &reviewerID
	m.ReviewedAt = &at
	m.UpdatedAt = at

	s.metrics.ObserveStatusChange(string(next))
	log.Info("status updated",
		zap.String("from", string(previous)),
		zap.String("to", string(next)),
	)

	payload := events.StatusChanged{
		MatchID:    matchID.String(),
		JobID:      m.JobID,
		From:       string(previous),
		To:         string(next),
		ReviewerID: reviewerID,
	}
	if err := s.publisher.Publish(ctx, events.ChannelStatusChanged, payload); err != nil {
		log.Warn("publishing status event failed", zap.Error(err))
	}

	return m, nil
}

// UpdateNotes replaces the recruiter notes of a match.
func (s *Service) UpdateNotes(ctx context.Context, matchID uuid.UUID, notes string, reviewerID int64) (*matching.MatchResult, error) {
	log := logger.WithFields(s.logger, logger.MatchFields(matchID.String(), reviewerID)...)

	m, err := s.authorizeMatch(ctx, matchID, reviewerID)
	if err != nil {
		log.Warn("notes update rejected", zap.Error(err))
		return nil, err
	}

	notes = strings.TrimSpace(notes)
	at := s.now()
	if err := s.store.UpdateResultNotes(ctx, matchID, notes, reviewerID, at); err != nil {
		return nil, fmt.Errorf("updating notes: %w", err)
	}

	m.RecruiterNotes = notes
	m.ReviewedBy = &reviewerID
	m.ReviewedAt = &at
	m.UpdatedAt = at

	log.Info("notes updated", zap.String("notes", utils.TruncateForLog(notes, notesLogLimit)))

	return m, nil
}

// ListResults returns the job's matches, best first. Matches whose candidate
// no longer exists are left out.
func (s *Service) ListResults(ctx context.Context, jobID, requesterID int64) ([]matching.RankedMatch, error) {
	if _, err := s.authorizeJob(ctx, jobID, requesterID); err != nil {
		return nil, err
	}

	ranked, err := s.store.ListResultsForJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("listing results: %w", err)
	}

	return ranked, nil
}

// authorizeMatch loads the match and checks that reviewerID owns its job.
func (s *Service) authorizeMatch(ctx context.Context, matchID uuid.UUID, reviewerID int64) (*matching.MatchResult, error) {
	m, err := s.store.GetResult(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorizeJob(ctx, m.JobID, reviewerID); err != nil {
		return nil, err
	}
	return m, nil
}

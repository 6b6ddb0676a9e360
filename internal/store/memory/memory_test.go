package memory

import (
	"context"
	"testing"
	"time"

	"github.com/spigell/cvbank/internal/matching"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestFetchJobNotFound(t *testing.T) {
	s := New()

	_, err := s.FetchJob(context.Background(), 404)
	require.ErrorIs(t, err, matching.ErrNotFound)
}

func TestFetchActiveCandidatesSkipsInactive(t *testing.T) {
	s := New()
	s.PutCandidate(matching.CandidateProfile{ID: 3, FullName: "c", Status: matching.ProfileStatusActive})
	s.PutCandidate(matching.CandidateProfile{ID: 1, FullName: "a"})
	s.PutCandidate(matching.CandidateProfile{ID: 2, FullName: "b", Status: matching.ProfileStatusInactive})
	s.PutCandidate(matching.CandidateProfile{ID: 4, FullName: "d", Status: matching.ProfileStatusDeleted})

	got, err := s.FetchActiveCandidates(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, int64(1), got[0].ID)
	require.Equal(t, int64(3), got[1].ID)
}

func TestReplaceResultsForJobOnlyTouchesThatJob(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Now()

	other := matching.NewMatchResult(2, 1, matching.Result{}, now)
	require.NoError(t, s.ReplaceResultsForJob(ctx, 2, []matching.MatchResult{other}))

	first := matching.NewMatchResult(1, 1, matching.Result{}, now)
	require.NoError(t, s.ReplaceResultsForJob(ctx, 1, []matching.MatchResult{first}))

	second := matching.NewMatchResult(1, 1, matching.Result{}, now)
	require.NoError(t, s.ReplaceResultsForJob(ctx, 1, []matching.MatchResult{second}))

	_, err := s.GetResult(ctx, first.ID)
	require.ErrorIs(t, err, matching.ErrNotFound)

	_, err = s.GetResult(ctx, second.ID)
	require.NoError(t, err)

	_, err = s.GetResult(ctx, other.ID)
	require.NoError(t, err)
}

func TestListResultsForJobOrdersAndDropsMissingCandidates(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Now()
	s.PutCandidate(matching.CandidateProfile{ID: 1, FullName: "low"})
	s.PutCandidate(matching.CandidateProfile{ID: 2, FullName: "high"})
	s.PutCandidate(matching.CandidateProfile{ID: 3, FullName: "gone"})

	low := matching.NewMatchResult(9, 1, matching.Result{Scores: matching.Scores{Overall: 40}}, now)
	high := matching.NewMatchResult(9, 2, matching.Result{Scores: matching.Scores{Overall: 90}}, now)
	gone := matching.NewMatchResult(9, 3, matching.Result{Scores: matching.Scores{Overall: 99}}, now)
	require.NoError(t, s.ReplaceResultsForJob(ctx, 9, []matching.MatchResult{low, high, gone}))
	s.DeleteCandidate(3)

	got, err := s.ListResultsForJob(ctx, 9)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "high", got[0].Candidate.FullName)
	require.Equal(t, "low", got[1].Candidate.FullName)
}

func TestUpdateResultStatusUnknownMatch(t *testing.T) {
	s := New()

	err := s.UpdateResultStatus(context.Background(), uuid.New(), matching.StatusShortlisted, 1, time.Now())
	require.ErrorIs(t, err, matching.ErrNotFound)
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"

	"github.com/spigell/cvbank/internal/matching"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	require.NoError(t, classify(nil))

	err := classify(fmt.Errorf("scan: %w", pgx.ErrNoRows))
	require.ErrorIs(t, err, matching.ErrNotFound)
	require.ErrorIs(t, err, pgx.ErrNoRows)

	dialErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	require.ErrorIs(t, classify(dialErr), matching.ErrStorageUnavailable)

	require.ErrorIs(t, classify(context.DeadlineExceeded), matching.ErrStorageUnavailable)

	plain := errors.New("syntax error")
	require.Equal(t, plain, classify(plain))
}

func TestCandidateColumnsAlias(t *testing.T) {
	require.NotContains(t, candidateColumns(""), "{p}")
	require.Contains(t, candidateColumns("c"), "c.full_name")
	require.Equal(t, strings.Count(candidateColumns("c"), ","), strings.Count(candidateColumns(""), ","))
}

func TestSchemaDeclaresTables(t *testing.T) {
	for _, table := range []string{"cv_profiles", "job_descriptions", "match_results"} {
		require.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table)
	}
}

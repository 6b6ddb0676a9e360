// Package postgres stores jobs, candidate profiles and match results in
// PostgreSQL through pgx.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spigell/cvbank/internal/matching"

	"github.com/ecodeclub/ekit/slice"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

// Store is a pgx-backed storage collaborator.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pool and verifies it with a ping.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", classify(err))
	}

	return &Store{pool: pool}, nil
}

// Close releases the pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Migrate creates missing tables and indexes. It is safe to run repeatedly.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", classify(err))
	}
	return nil
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return classify(s.pool.Ping(ctx))
}

const jobColumns = `
	id, recruiter_id, job_title, company_name,
	COALESCE(location, ''), is_remote,
	COALESCE(required_education, ''), COALESCE(required_field_of_study, ''),
	required_skills, preferred_skills,
	min_experience, max_experience,
	COALESCE(salary_min::text, ''), COALESCE(salary_max::text, ''), COALESCE(salary_currency, ''),
	employment_type, COALESCE(industry, ''), status`

func scanJob(row pgx.Row) (matching.JobRequirement, error) {
	var j matching.JobRequirement
	err := row.Scan(
		&j.ID, &j.RecruiterID, &j.Title, &j.Company,
		&j.Location, &j.IsRemote,
		&j.RequiredEducation, &j.RequiredFieldOfStudy,
		&j.RequiredSkills, &j.PreferredSkills,
		&j.MinExperience, &j.MaxExperience,
		&j.SalaryMin, &j.SalaryMax, &j.SalaryCurrency,
		&j.EmploymentType, &j.Industry, &j.Status,
	)
	return j, err
}

// candidateColumns lists profile columns, optionally qualified by a table alias.
func candidateColumns(alias string) string {
	p := ""
	if alias != "" {
		p = alias + "."
	}
	return strings.NewReplacer("{p}", p).Replace(`
	{p}id, COALESCE({p}user_id, 0), {p}full_name, COALESCE({p}city, ''),
	COALESCE({p}highest_degree, ''), COALESCE({p}field_of_study, ''), COALESCE({p}field_of_work, ''),
	{p}years_of_experience, {p}skills, {p}willing_to_relocate,
	COALESCE({p}min_salary_expectation::text, ''), COALESCE({p}salary_currency, ''), {p}status`)
}

func candidateDest(c *matching.CandidateProfile) []any {
	return []any{
		&c.ID, &c.UserID, &c.FullName, &c.City,
		&c.HighestDegree, &c.FieldOfStudy, &c.FieldOfWork,
		&c.YearsOfExperience, &c.Skills, &c.WillingToRelocate,
		&c.MinSalaryExpectation, &c.SalaryCurrency, &c.Status,
	}
}

func scanCandidate(row pgx.Row) (matching.CandidateProfile, error) {
	var c matching.CandidateProfile
	err := row.Scan(candidateDest(&c)...)
	return c, err
}

func (s *Store) FetchJob(ctx context.Context, jobID int64) (*matching.JobRequirement, error) {
	job, err := scanJob(s.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM job_descriptions WHERE id = $1`, jobID))
	if err != nil {
		return nil, fmt.Errorf("fetching job %d: %w", jobID, classify(err))
	}
	return &job, nil
}

func (s *Store) ListActiveJobs(ctx context.Context) ([]matching.JobRequirement, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM job_descriptions WHERE status = 'active' ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing active jobs: %w", classify(err))
	}

	jobs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (matching.JobRequirement, error) {
		return scanJob(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scanning jobs: %w", classify(err))
	}
	return jobs, nil
}

func (s *Store) FetchActiveCandidates(ctx context.Context) ([]matching.CandidateProfile, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+candidateColumns("")+` FROM cv_profiles WHERE status = 'active' ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("fetching candidates: %w", classify(err))
	}

	candidates, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (matching.CandidateProfile, error) {
		return scanCandidate(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scanning candidates: %w", classify(err))
	}
	return candidates, nil
}

var resultColumns = []string{
	"id", "job_id", "cv_profile_id",
	"overall_score", "education_score", "experience_score", "skills_score",
	"location_score", "salary_score", "industry_score",
	"score_explanation", "qualification_summary", "key_highlights", "gap_analysis",
	"recruiter_status", "created_at", "updated_at",
}

// ReplaceResultsForJob swaps the job's results inside one transaction. The
// transaction takes an advisory lock on the job id so concurrent replaces
// from other processes queue up instead of interleaving.
func (s *Store) ReplaceResultsForJob(ctx context.Context, jobID int64, results []matching.MatchResult) (err error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", classify(err))
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) && err == nil {
			err = fmt.Errorf("rollback: %w", classify(rErr))
		}
	}()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, jobID); err != nil {
		return fmt.Errorf("advisory lock: %w", classify(err))
	}

	if _, err := tx.Exec(ctx, `DELETE FROM match_results WHERE job_id = $1`, jobID); err != nil {
		return fmt.Errorf("deleting results: %w", classify(err))
	}

	rows := slice.Map(results, func(_ int, r matching.MatchResult) []any {
		return []any{
			r.ID, jobID, r.CandidateID,
			r.Scores.Overall, r.Scores.Education, r.Scores.Experience, r.Scores.Skills,
			r.Scores.Location, r.Scores.Salary, r.Scores.Industry,
			r.Explanation, r.Summary, nonNil(r.Highlights), nonNil(r.Gaps),
			string(r.RecruiterStatus), r.CreatedAt, r.UpdatedAt,
		}
	})
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"match_results"}, resultColumns, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("inserting results: %w", classify(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", classify(err))
	}
	return nil
}

const matchColumns = `
	m.id, m.job_id, m.cv_profile_id,
	m.overall_score, m.education_score, m.experience_score, m.skills_score,
	m.location_score, m.salary_score, m.industry_score,
	m.score_explanation, m.qualification_summary, m.key_highlights, m.gap_analysis,
	m.recruiter_status, COALESCE(m.recruiter_notes, ''), m.reviewed_by, m.reviewed_at,
	m.created_at, m.updated_at`

func matchDest(m *matching.MatchResult) []any {
	return []any{
		&m.ID, &m.JobID, &m.CandidateID,
		&m.Scores.Overall, &m.Scores.Education, &m.Scores.Experience, &m.Scores.Skills,
		&m.Scores.Location, &m.Scores.Salary, &m.Scores.Industry,
		&m.Explanation, &m.Summary, &m.Highlights, &m.Gaps,
		&m.RecruiterStatus, &m.RecruiterNotes, &m.ReviewedBy, &m.ReviewedAt,
		&m.CreatedAt, &m.UpdatedAt,
	}
}

func (s *Store) GetResult(ctx context.Context, matchID uuid.UUID) (*matching.MatchResult, error) {
	var m matching.MatchResult
	err := s.pool.QueryRow(ctx,
		`SELECT `+matchColumns+` FROM match_results m WHERE m.id = $1`, matchID,
	).Scan(matchDest(&m)...)
	if err != nil {
		return nil, fmt.Errorf("fetching match %s: %w", matchID, classify(err))
	}
	return &m, nil
}

func (s *Store) UpdateResultStatus(ctx context.Context, matchID uuid.UUID, status matching.RecruiterStatus, reviewerID int64, at time.Time) error {
	return s.updateResult(ctx, matchID,
		`UPDATE match_results
		 SET recruiter_status = $2, reviewed_by = $3, reviewed_at = $4, updated_at = $4
		 WHERE id = $1`,
		string(status), reviewerID, at)
}

func (s *Store) UpdateResultNotes(ctx context.Context, matchID uuid.UUID, notes string, reviewerID int64, at time.Time) error {
	return s.updateResult(ctx, matchID,
		`UPDATE match_results
		 SET recruiter_notes = NULLIF($2, ''), reviewed_by = $3, reviewed_at = $4, updated_at = $4
		 WHERE id = $1`,
		notes, reviewerID, at)
}

func (s *Store) updateResult(ctx context.Context, matchID uuid.UUID, query string, args ...any) error {
	tag, err := s.pool.Exec(ctx, query, append([]any{matchID}, args...)...)
	if err != nil {
		return fmt.Errorf("updating match %s: %w", matchID, classify(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("match %s: %w", matchID, matching.ErrNotFound)
	}
	return nil
}

// ListResultsForJob joins results with their profiles, best first. Results
// whose profile row is gone drop out of the inner join.
func (s *Store) ListResultsForJob(ctx context.Context, jobID int64) ([]matching.RankedMatch, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+matchColumns+`, `+candidateColumns("c")+`
		 FROM match_results m
		 JOIN cv_profiles c ON c.id = m.cv_profile_id
		 WHERE m.job_id = $1
		 ORDER BY m.overall_score DESC, m.cv_profile_id`, jobID)
	if err != nil {
		return nil, fmt.Errorf("listing results: %w", classify(err))
	}

	ranked, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (matching.RankedMatch, error) {
		var r matching.RankedMatch
		dest := append(matchDest(&r.MatchResult), candidateDest(&r.Candidate)...)
		err := row.Scan(dest...)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning results: %w", classify(err))
	}
	return ranked, nil
}

// classify maps pgx errors onto the matching error taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %w", matching.ErrNotFound, err)
	}

	var (
		connectErr *pgconn.ConnectError
		netErr     net.Error
	)
	if errors.As(err, &connectErr) || errors.As(err, &netErr) || pgconn.Timeout(err) {
		return fmt.Errorf("%w: %w", matching.ErrStorageUnavailable, err)
	}
	return err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

package postgres

import (
	"context"
	"fmt"

	"github.com/spigell/cvbank/internal/matching"

	"github.com/jackc/pgx/v5"
)

// SaveJob inserts the job, or updates it when a row with the same id exists.
// A zero id lets the database assign one. The stored id is returned.
func (s *Store) SaveJob(ctx context.Context, j matching.JobRequirement) (int64, error) {
	if j.Status == "" {
		j.Status = matching.JobStatusDraft
	}
	if j.EmploymentType == "" {
		j.EmploymentType = "full_time"
	}

	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO job_descriptions (
			id, recruiter_id, job_title, company_name, location, is_remote,
			required_education, required_field_of_study, required_skills, preferred_skills,
			min_experience, max_experience, salary_min, salary_max, salary_currency,
			employment_type, industry, status)
		 VALUES (
			COALESCE(NULLIF($1, 0), nextval(pg_get_serial_sequence('job_descriptions', 'id'))),
			$2, $3, $4, NULLIF($5, ''), $6,
			NULLIF($7, ''), NULLIF($8, ''), $9, $10,
			$11, $12, NULLIF($13, '')::numeric, NULLIF($14, '')::numeric, NULLIF($15, ''),
			$16, NULLIF($17, ''), $18)
		 ON CONFLICT (id) DO UPDATE SET
			recruiter_id = EXCLUDED.recruiter_id, job_title = EXCLUDED.job_title,
			company_name = EXCLUDED.company_name, location = EXCLUDED.location,
			is_remote = EXCLUDED.is_remote, required_education = EXCLUDED.required_education,
			required_field_of_study = EXCLUDED.required_field_of_study,
			required_skills = EXCLUDED.required_skills, preferred_skills = EXCLUDED.preferred_skills,
			min_experience = EXCLUDED.min_experience, max_experience = EXCLUDED.max_experience,
			salary_min = EXCLUDED.salary_min, salary_max = EXCLUDED.salary_max,
			salary_currency = EXCLUDED.salary_currency, employment_type = EXCLUDED.employment_type,
			industry = EXCLUDED.industry, status = EXCLUDED.status, updated_at = NOW()
		 RETURNING id`,
		j.ID, j.RecruiterID, j.Title, j.Company, j.Location, j.IsRemote,
		j.RequiredEducation, j.RequiredFieldOfStudy, nonNil(j.RequiredSkills), nonNil(j.PreferredSkills),
		j.MinExperience, j.MaxExperience, j.SalaryMin, j.SalaryMax, j.SalaryCurrency,
		j.EmploymentType, j.Industry, j.Status,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("saving job %q: %w", j.Title, classify(err))
	}
	return id, nil
}

// SaveCandidate inserts or updates a profile the same way SaveJob does.
func (s *Store) SaveCandidate(ctx context.Context, c matching.CandidateProfile) (int64, error) {
	if c.Status == "" {
		c.Status = matching.ProfileStatusActive
	}

	var userID *int64
	if c.UserID != 0 {
		userID = &c.UserID
	}

	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO cv_profiles (
			id, user_id, full_name, city, highest_degree, field_of_study, field_of_work,
			years_of_experience, skills, willing_to_relocate,
			min_salary_expectation, salary_currency, status)
		 VALUES (
			COALESCE(NULLIF($1, 0), nextval(pg_get_serial_sequence('cv_profiles', 'id'))),
			$2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''),
			$8, $9, $10,
			NULLIF($11, '')::numeric, NULLIF($12, ''), $13)
		 ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id, full_name = EXCLUDED.full_name, city = EXCLUDED.city,
			highest_degree = EXCLUDED.highest_degree, field_of_study = EXCLUDED.field_of_study,
			field_of_work = EXCLUDED.field_of_work, years_of_experience = EXCLUDED.years_of_experience,
			skills = EXCLUDED.skills, willing_to_relocate = EXCLUDED.willing_to_relocate,
			min_salary_expectation = EXCLUDED.min_salary_expectation,
			salary_currency = EXCLUDED.salary_currency, status = EXCLUDED.status, updated_at = NOW()
		 RETURNING id`,
		c.ID, userID, c.FullName, c.City, c.HighestDegree, c.FieldOfStudy, c.FieldOfWork,
		c.YearsOfExperience, nonNil(c.Skills), c.WillingToRelocate,
		c.MinSalaryExpectation, c.SalaryCurrency, c.Status,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("saving candidate %q: %w", c.FullName, classify(err))
	}
	return id, nil
}

// SyncSequences moves identity sequences past explicitly inserted ids.
func (s *Store) SyncSequences(ctx context.Context) error {
	batch := &pgx.Batch{}
	for _, table := range []string{"job_descriptions", "cv_profiles"} {
		batch.Queue(fmt.Sprintf(
			`SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX(id) FROM %[1]s), 0) + 1, false)`,
			table))
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("syncing sequences: %w", classify(err))
	}
	return nil
}

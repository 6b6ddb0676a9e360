package matching

import (
	"time"

	"github.com/google/uuid"
)

// Profile and job statuses mirror the enums of the storage schema.
const (
	ProfileStatusActive   = "active"
	ProfileStatusInactive = "inactive"
	ProfileStatusDeleted  = "deleted"

	JobStatusDraft  = "draft"
	JobStatusActive = "active"
	JobStatusClosed = "closed"
	JobStatusFilled = "filled"
)

// JobRequirement is a job posting as seen by the scorer.
// Salary amounts are decimal strings; an empty string means "not specified".
type JobRequirement struct {
	ID                   int64    `json:"id" mapstructure:"id"`
	RecruiterID          int64    `json:"recruiterId" mapstructure:"recruiter_id" validate:"required"`
	Title                string   `json:"title" mapstructure:"title" validate:"required"`
	Company              string   `json:"company" mapstructure:"company" validate:"required"`
	Location             string   `json:"location,omitempty" mapstructure:"location"`
	IsRemote             bool     `json:"isRemote" mapstructure:"is_remote"`
	RequiredEducation    string   `json:"requiredEducation,omitempty" mapstructure:"required_education"`
	RequiredFieldOfStudy string   `json:"requiredFieldOfStudy,omitempty" mapstructure:"required_field_of_study"`
	RequiredSkills       []string `json:"requiredSkills,omitempty" mapstructure:"required_skills"`
	PreferredSkills      []string `json:"preferredSkills,omitempty" mapstructure:"preferred_skills"`
	MinExperience        *int     `json:"minExperience,omitempty" mapstructure:"min_experience" validate:"omitempty,gte=0"`
	MaxExperience        *int     `json:"maxExperience,omitempty" mapstructure:"max_experience" validate:"omitempty,gte=0"`
	SalaryMin            string   `json:"salaryMin,omitempty" mapstructure:"salary_min" validate:"omitempty,numeric"`
	SalaryMax            string   `json:"salaryMax,omitempty" mapstructure:"salary_max" validate:"omitempty,numeric"`
	SalaryCurrency       string   `json:"salaryCurrency,omitempty" mapstructure:"salary_currency"`
	EmploymentType       string   `json:"employmentType,omitempty" mapstructure:"employment_type" validate:"omitempty,oneof=full_time part_time contract intern hybrid"`
	Industry             string   `json:"industry,omitempty" mapstructure:"industry"`
	Status               string   `json:"status,omitempty" mapstructure:"status" validate:"omitempty,oneof=draft active closed filled"`
}

// CandidateProfile is a CV profile as seen by the scorer. FullName is carried
// for display only and is never read while scoring.
type CandidateProfile struct {
	ID                   int64    `json:"id" mapstructure:"id"`
	UserID               int64    `json:"userId,omitempty" mapstructure:"user_id"`
	FullName             string   `json:"fullName" mapstructure:"full_name" validate:"required"`
	City                 string   `json:"city,omitempty" mapstructure:"city"`
	HighestDegree        string   `json:"highestDegree,omitempty" mapstructure:"highest_degree"`
	FieldOfStudy         string   `json:"fieldOfStudy,omitempty" mapstructure:"field_of_study"`
	FieldOfWork          string   `json:"fieldOfWork,omitempty" mapstructure:"field_of_work"`
	YearsOfExperience    *int     `json:"yearsOfExperience,omitempty" mapstructure:"years_of_experience" validate:"omitempty,gte=0"`
	Skills               []string `json:"skills,omitempty" mapstructure:"skills"`
	WillingToRelocate    bool     `json:"willingToRelocate" mapstructure:"willing_to_relocate"`
	MinSalaryExpectation string   `json:"minSalaryExpectation,omitempty" mapstructure:"min_salary_expectation" validate:"omitempty,numeric"`
	SalaryCurrency       string   `json:"salaryCurrency,omitempty" mapstructure:"salary_currency"`
	Status               string   `json:"status,omitempty" mapstructure:"status" validate:"omitempty,oneof=active inactive deleted"`
}

// Scores holds the seven integer scores of a match, each in [0,100].
type Scores struct {
	Overall    int `json:"overall"`
	Education  int `json:"education"`
	Experience int `json:"experience"`
	Skills     int `json:"skills"`
	Location   int `json:"location"`
	Salary     int `json:"salary"`
	Industry   int `json:"industry"`
}

// Explanation carries one sentence per factor plus the overall sentence.
type Explanation struct {
	Overall    string `json:"overall"`
	Education  string `json:"education"`
	Experience string `json:"experience"`
	Skills     string `json:"skills"`
	Location   string `json:"location"`
	Salary     string `json:"salary"`
	Industry   string `json:"industry"`
}

// Result is everything the scorer derives from one job/candidate pair.
type Result struct {
	Scores      Scores      `json:"scores"`
	Explanation Explanation `json:"explanation"`
	Summary     string      `json:"qualificationSummary"`
	Highlights  []string    `json:"keyHighlights"`
	Gaps        []string    `json:"gapAnalysis"`
}

// MatchResult is the persisted outcome for one job/candidate pair.
type MatchResult struct {
	ID          uuid.UUID `json:"id"`
	JobID       int64     `json:"jobId"`
	CandidateID int64     `json:"cvProfileId"`
	Result

	RecruiterStatus RecruiterStatus `json:"recruiterStatus"`
	RecruiterNotes  string          `json:"recruiterNotes,omitempty"`
	ReviewedBy      *int64          `json:"reviewedBy,omitempty"`
	ReviewedAt      *time.Time      `json:"reviewedAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// RankedMatch is a match joined with the candidate it was computed for.
type RankedMatch struct {
	MatchResult
	Candidate CandidateProfile `json:"candidate"`
}

// NewMatchResult wraps a scorer result into a fresh pending match.
func NewMatchResult(jobID, candidateID int64, r Result, now time.Time) MatchResult {
	return MatchResult{
		ID:              uuid.New(),
		JobID:           jobID,
		CandidateID:     candidateID,
		Result:          r,
		RecruiterStatus: StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

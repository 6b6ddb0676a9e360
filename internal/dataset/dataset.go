// Package dataset loads jobs and candidate profiles from YAML or JSON files
// and validates them before they reach a store.
package dataset

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spigell/cvbank/internal/matching"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Dataset is what a file may contain. Either list may be empty.
type Dataset struct {
	Jobs       []matching.JobRequirement   `mapstructure:"jobs"`
	Candidates []matching.CandidateProfile `mapstructure:"candidates"`
}

// Load reads path, decodes the "jobs" and "candidates" lists and validates
// every record. The format follows the file extension.
func Load(path string) (*Dataset, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", path, err)
	}

	ds, err := Decode(v.AllSettings())
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return ds, nil
}

// Decode turns loosely typed records into a validated Dataset. Numbers and
// strings are converted where it makes sense, so a salary may be written as
// 80000 or "80000".
func Decode(raw map[string]any) (*Dataset, error) {
	var ds Dataset

	cfg := &mapstructure.DecoderConfig{
		Metadata:         nil,
		Result:           &ds,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding records: %w", err)
	}

	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(jobRules, matching.JobRequirement{})
	v.RegisterStructValidation(candidateRules, matching.CandidateProfile{})
	return v
}

// Validate checks every record and reports all problems at once.
func (d *Dataset) Validate() error {
	var errs []error

	jobIDs := make(map[int64]struct{}, len(d.Jobs))
	for i, job := range d.Jobs {
		if err := validate.Struct(job); err != nil {
			errs = append(errs, fmt.Errorf("jobs[%d] %q: %w", i, job.Title, describe(err)))
		}
		if job.ID == 0 {
			continue
		}
		if _, dup := jobIDs[job.ID]; dup {
			errs = append(errs, fmt.Errorf("jobs[%d]: duplicate id %d", i, job.ID))
		}
		jobIDs[job.ID] = struct{}{}
	}

	candidateIDs := make(map[int64]struct{}, len(d.Candidates))
	for i, c := range d.Candidates {
		if err := validate.Struct(c); err != nil {
			errs = append(errs, fmt.Errorf("candidates[%d] %q: %w", i, c.FullName, describe(err)))
		}
		if c.ID == 0 {
			continue
		}
		if _, dup := candidateIDs[c.ID]; dup {
			errs = append(errs, fmt.Errorf("candidates[%d]: duplicate id %d", i, c.ID))
		}
		candidateIDs[c.ID] = struct{}{}
	}

	return errors.Join(errs...)
}

// JobByID returns the job with the given id.
func (d *Dataset) JobByID(id int64) (matching.JobRequirement, bool) {
	for _, j := range d.Jobs {
		if j.ID == id {
			return j, true
		}
	}
	return matching.JobRequirement{}, false
}

func jobRules(sl validator.StructLevel) {
	job := sl.Current().Interface().(matching.JobRequirement)

	if job.MinExperience != nil && job.MaxExperience != nil && *job.MinExperience > *job.MaxExperience {
		sl.ReportError(job.MaxExperience, "MaxExperience", "max_experience", "gtefield", "MinExperience")
	}

	lo, okLo := amount(job.SalaryMin)
	hi, okHi := amount(job.SalaryMax)
	if okLo && lo < 0 {
		sl.ReportError(job.SalaryMin, "SalaryMin", "salary_min", "gte", "0")
	}
	if okHi && hi < 0 {
		sl.ReportError(job.SalaryMax, "SalaryMax", "salary_max", "gte", "0")
	}
	if okLo && okHi && lo > hi {
		sl.ReportError(job.SalaryMax, "SalaryMax", "salary_max", "gtefield", "SalaryMin")
	}
}

func candidateRules(sl validator.StructLevel) {
	c := sl.Current().Interface().(matching.CandidateProfile)

	if v, ok := amount(c.MinSalaryExpectation); ok && v < 0 {
		sl.ReportError(c.MinSalaryExpectation, "MinSalaryExpectation", "min_salary_expectation", "gte", "0")
	}
}

func amount(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

// describe flattens validator errors into one readable error.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Errorf("%s fails %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		msgs = append(msgs, fmt.Errorf("%s fails %s", fe.Field(), fe.Tag()))
	}
	return errors.Join(msgs...)
}

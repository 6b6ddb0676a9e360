package filtering

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spigell/cvbank/internal/matching"

	"go.uber.org/zap"
)

// ExcludedCandidates is the on-disk list of candidates a recruiter no
// longer wants to see.
type ExcludedCandidates struct {
	Items []*ExcludedCandidate `json:"items"`
}

type ExcludedCandidate struct {
	CandidateID int64     `json:"candidateId"`
	FullName    string    `json:"fullName,omitempty"`
	ExcludedAt  time.Time `json:"excludedAt"`
}

// ToExcluded converts matches into exclusion entries stamped with now.
func ToExcluded(m []matching.RankedMatch, now time.Time) *ExcludedCandidates {
	excluded := &ExcludedCandidates{Items: make([]*ExcludedCandidate, 0, len(m))}
	for _, r := range m {
		excluded.Items = append(excluded.Items, &ExcludedCandidate{
			CandidateID: r.CandidateID,
			FullName:    r.Candidate.FullName,
			ExcludedAt:  now.UTC(),
		})
	}
	return excluded
}

// LoadExcluded reads an exclusion file. A missing or empty file is an empty list.
func LoadExcluded(path string) (*ExcludedCandidates, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &ExcludedCandidates{}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return &ExcludedCandidates{}, nil
	}

	var excluded ExcludedCandidates
	if err := json.Unmarshal(data, &excluded); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &excluded, nil
}

// Append adds entries that are not listed yet.
func (e *ExcludedCandidates) Append(other *ExcludedCandidates) {
	seen := make(map[int64]struct{}, len(e.Items))
	for _, item := range e.Items {
		seen[item.CandidateID] = struct{}{}
	}
	for _, item := range other.Items {
		if _, ok := seen[item.CandidateID]; ok {
			continue
		}
		seen[item.CandidateID] = struct{}{}
		e.Items = append(e.Items, item)
	}
}

func (e *ExcludedCandidates) CandidateIDs() map[int64]struct{} {
	ids := make(map[int64]struct{}, len(e.Items))
	for _, item := range e.Items {
		ids[item.CandidateID] = struct{}{}
	}
	return ids
}

// ToFile overwrites path with the list.
func (e *ExcludedCandidates) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

type excludeFileFilter struct {
	switchable

	path string
}

// NewExcludeFile creates a filter that removes candidates listed in an exclusion file.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = ""
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.ExcludeFile)
	}
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, m []matching.RankedMatch) ([]matching.RankedMatch, Step, error) {
	if f.path == "" {
		return m, unchanged(m), nil
	}

	excluded, err := LoadExcluded(f.path)
	if err != nil {
		return m, Step{}, fmt.Errorf("getting excluded candidates from file: %w", err)
	}

	ids := excluded.CandidateIDs()
	out, step := keep(m, func(r matching.RankedMatch) bool {
		_, skip := ids[r.CandidateID]
		return !skip
	})
	if step.Dropped > 0 {
		deps.Logger.Info("excluding candidates based on exclude file",
			zap.String("path", f.path),
			zap.Int("matches_left", step.Left),
		)
	}
	return out, step, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

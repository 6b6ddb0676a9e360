package filtering

import (
	"context"
	"strings"

	"github.com/spigell/cvbank/internal/matching"

	"go.uber.org/zap"
)

type statusFilter struct {
	switchable

	statuses []matching.RecruiterStatus
}

// NewStatus creates a filter that keeps only matches in the given recruiter statuses.
func NewStatus() Filter {
	return &statusFilter{}
}

func (f *statusFilter) Name() string { return "status" }

func (f *statusFilter) Validate(cfg *Config) error {
	f.statuses = nil
	if cfg == nil {
		return nil
	}
	for _, raw := range cfg.Statuses {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		st, err := matching.ParseStatus(raw)
		if err != nil {
			return err
		}
		f.statuses = append(f.statuses, st)
	}
	return nil
}

func (f *statusFilter) Apply(_ context.Context, deps Deps, m []matching.RankedMatch) ([]matching.RankedMatch, Step, error) {
	if len(f.statuses) == 0 {
		return m, unchanged(m), nil
	}

	allowed := make(map[matching.RecruiterStatus]struct{}, len(f.statuses))
	for _, st := range f.statuses {
		allowed[st] = struct{}{}
	}

	out, step := keep(m, func(r matching.RankedMatch) bool {
		_, ok := allowed[r.RecruiterStatus]
		return ok
	})
	if step.Dropped > 0 {
		deps.Logger.Info("excluding matches by recruiter status",
			zap.Strings("statuses", f.names()),
			zap.Int("matches_left", step.Left),
		)
	}
	return out, step, nil
}

func (f *statusFilter) names() []string {
	names := make([]string, 0, len(f.statuses))
	for _, st := range f.statuses {
		names = append(names, string(st))
	}
	return names
}

func (f *statusFilter) Status() Status {
	details := map[string]string{}
	if len(f.statuses) > 0 {
		details["statuses"] = strings.Join(f.names(), ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

package filtering

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spigell/cvbank/internal/matching"

	"go.uber.org/zap"
)

type minScoreFilter struct {
	switchable

	min int
}

// NewMinScore creates a filter that drops matches below an overall score.
func NewMinScore() Filter {
	return &minScoreFilter{}
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Validate(cfg *Config) error {
	f.min = 0
	if cfg == nil {
		return nil
	}
	if cfg.MinScore < 0 || cfg.MinScore > 100 {
		return fmt.Errorf("minimum score must be within 0..100, got %d", cfg.MinScore)
	}
	f.min = cfg.MinScore
	return nil
}

func (f *minScoreFilter) Apply(_ context.Context, deps Deps, m []matching.RankedMatch) ([]matching.RankedMatch, Step, error) {
	if f.min == 0 {
		return m, unchanged(m), nil
	}

	out, step := keep(m, func(r matching.RankedMatch) bool { return r.Scores.Overall >= f.min })
	if step.Dropped > 0 {
		deps.Logger.Info("excluding matches below minimum score",
			zap.Int("min_score", f.min),
			zap.Int("matches_left", step.Left),
		)
	}
	return out, step, nil
}

func (f *minScoreFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: map[string]string{"min_score": strconv.Itoa(f.min)}}
}

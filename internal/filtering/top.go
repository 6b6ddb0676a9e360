package filtering

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spigell/cvbank/internal/matching"
)

type topFilter struct {
	switchable

	limit int
}

// NewTop creates a filter that keeps the first N matches. Input is expected
// to be ranked already.
func NewTop() Filter {
	return &topFilter{}
}

func (f *topFilter) Name() string { return "top" }

func (f *topFilter) Validate(cfg *Config) error {
	f.limit = 0
	if cfg == nil {
		return nil
	}
	if cfg.Top < 0 {
		return fmt.Errorf("top must not be negative, got %d", cfg.Top)
	}
	f.limit = cfg.Top
	return nil
}

func (f *topFilter) Apply(_ context.Context, _ Deps, m []matching.RankedMatch) ([]matching.RankedMatch, Step, error) {
	if f.limit == 0 || len(m) <= f.limit {
		return m, unchanged(m), nil
	}
	return m[:f.limit], Step{Initial: len(m), Dropped: len(m) - f.limit, Left: f.limit}, nil
}

func (f *topFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: map[string]string{"limit": strconv.Itoa(f.limit)}}
}

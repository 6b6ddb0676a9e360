// Package filtering narrows a ranked match list down to what a recruiter
// wants to look at.
package filtering

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/cvbank/internal/matching"

	"go.uber.org/zap"
)

// Filter represents a single filtering step applied to ranked matches.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, m []matching.RankedMatch) ([]matching.RankedMatch, Step, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Logger *zap.Logger
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config contains the settings consumed by the filters.
type Config struct {
	MinScore    int
	Statuses    []string
	Top         int
	ExcludeFile string
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

type statusProvider interface {
	Status() Status
}

// Default returns the standard pipeline. Order matters: top-N is applied
// last so it counts only matches that survived the other steps.
func Default() []Filter {
	return []Filter{
		NewExcludeFile(),
		NewMinScore(),
		NewStatus(),
		NewTop(),
	}
}

// switchable holds the enabled state every filter embeds.
type switchable struct {
	disabled bool
	reason   string
}

func (s *switchable) Disable(reason string) {
	s.disabled = true
	s.reason = reason
}

func (s *switchable) IsEnabled() bool { return !s.disabled }

// Prepare returns the default pipeline with every filter that cfg leaves
// unset disabled, so Describe tells why it did not run.
func Prepare(cfg *Config) []Filter {
	steps := Default()
	if cfg == nil {
		cfg = &Config{}
	}

	if strings.TrimSpace(cfg.ExcludeFile) == "" {
		DisableByName(steps, "exclude_file", "no exclude file configured")
	}
	if cfg.MinScore == 0 {
		DisableByName(steps, "min_score", "no minimum score given")
	}
	if len(cfg.Statuses) == 0 {
		DisableByName(steps, "status", "no statuses given")
	}
	if cfg.Top == 0 {
		DisableByName(steps, "top", "no limit given")
	}

	return steps
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run validates every enabled filter, then applies them in order.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, m []matching.RankedMatch) ([]matching.RankedMatch, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			deps.Logger.Debug("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(ctx, deps, m)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		deps.Logger.Debug("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		m = next
	}

	return m, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

// keep returns the matches for which pred holds, plus the step counters.
func keep(m []matching.RankedMatch, pred func(matching.RankedMatch) bool) ([]matching.RankedMatch, Step) {
	out := make([]matching.RankedMatch, 0, len(m))
	for _, item := range m {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out, Step{Initial: len(m), Dropped: len(m) - len(out), Left: len(out)}
}

func unchanged(m []matching.RankedMatch) Step {
	return Step{Initial: len(m), Left: len(m)}
}

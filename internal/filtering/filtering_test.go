package filtering

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/spigell/cvbank/internal/matching"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func ranked(scores ...int) []matching.RankedMatch {
	out := make([]matching.RankedMatch, 0, len(scores))
	for i, s := range scores {
		r := matching.RankedMatch{}
		r.CandidateID = int64(i + 1)
		r.Scores.Overall = s
		r.RecruiterStatus = matching.StatusPending
		r.Candidate.FullName = "candidate"
		out = append(out, r)
	}
	return out
}

func ids(m []matching.RankedMatch) []int64 {
	out := make([]int64, 0, len(m))
	for _, r := range m {
		out = append(out, r.CandidateID)
	}
	return out
}

func TestRunAppliesFiltersInOrder(t *testing.T) {
	in := ranked(95, 80, 70, 40, 20)
	in[1].RecruiterStatus = matching.StatusRejected

	cfg := &Config{MinScore: 50, Statuses: []string{"pending"}, Top: 1}
	got, err := Run(context.Background(), cfg, Deps{}, Default(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 1 || got[0].CandidateID != 1 {
		t.Fatalf("unexpected result: %v", ids(got))
	}
}

func TestRunValidatesConfig(t *testing.T) {
	cases := []*Config{
		{MinScore: 101},
		{Top: -1},
		{Statuses: []string{"interviewing"}},
	}
	for _, cfg := range cases {
		if _, err := Run(context.Background(), cfg, Deps{}, Default(), ranked(10)); err == nil {
			t.Fatalf("expected validation error for %+v", cfg)
		}
	}
}

func TestRunWithoutConfigKeepsEverything(t *testing.T) {
	in := ranked(10, 20, 30)
	got, err := Run(context.Background(), nil, Deps{}, Default(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(got))
	}
}

func TestPrepareDisablesUnsetFilters(t *testing.T) {
	steps := Prepare(&Config{MinScore: 50})

	want := map[string]bool{"exclude_file": false, "min_score": true, "status": false, "top": false}
	for _, st := range Describe(steps) {
		enabled, ok := want[st.Name]
		if !ok {
			t.Fatalf("unexpected filter %q", st.Name)
		}
		if st.Enabled != enabled {
			t.Fatalf("%s: enabled = %v, want %v", st.Name, st.Enabled, enabled)
		}
		if !st.Enabled && st.Reason == "" {
			t.Fatalf("%s: expected a reason for being disabled", st.Name)
		}
	}

	got, err := Run(context.Background(), &Config{MinScore: 50}, Deps{}, steps, ranked(90, 40))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].CandidateID != 1 {
		t.Fatalf("unexpected result: %v", ids(got))
	}
}

func TestDisabledFilterIsSkipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "excluded.json")
	if err := ToExcluded(ranked(90), time.Now()).ToFile(path); err != nil {
		t.Fatalf("writing exclusion file: %v", err)
	}

	cfg := &Config{ExcludeFile: path}
	steps := Prepare(cfg)
	DisableByName(steps, "exclude_file", "reviewing everyone")

	got, err := Run(context.Background(), cfg, Deps{}, steps, ranked(90, 80))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("disabled filter was applied: %v", ids(got))
	}

	for _, st := range Describe(steps) {
		if st.Name == "exclude_file" && (st.Enabled || st.Reason != "reviewing everyone") {
			t.Fatalf("unexpected status: %+v", st)
		}
	}
}

func TestMinScoreLogsDrops(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	f := NewMinScore()
	if err := f.Validate(&Config{MinScore: 50}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, step, err := f.Apply(context.Background(), Deps{Logger: zap.New(core)}, ranked(60, 50, 49))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if step != (Step{Initial: 3, Dropped: 1, Left: 2}) {
		t.Fatalf("unexpected step: %+v", step)
	}
	if logs.FilterMessage("excluding matches below minimum score").Len() != 1 {
		t.Fatalf("expected a log entry about dropped matches")
	}
}

func TestExcludeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "excluded.json")

	excluded := ToExcluded(ranked(90, 80)[:1], time.Now())
	excluded.Append(ToExcluded(ranked(90, 80)[:1], time.Now()))
	if len(excluded.Items) != 1 {
		t.Fatalf("expected duplicates to be skipped, got %d items", len(excluded.Items))
	}
	if err := excluded.ToFile(path); err != nil {
		t.Fatalf("writing exclusion file: %v", err)
	}

	got, err := Run(context.Background(), &Config{ExcludeFile: path}, Deps{}, Default(), ranked(90, 80, 70))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].CandidateID != 2 {
		t.Fatalf("unexpected result: %v", ids(got))
	}
}

func TestLoadExcludedMissingFile(t *testing.T) {
	excluded, err := LoadExcluded(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(excluded.Items) != 0 {
		t.Fatalf("expected empty list")
	}
}

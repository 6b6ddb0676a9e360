package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spigell/cvbank/internal/matching"

	"github.com/google/uuid"
)

func TestHint(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{fmt.Errorf("job 7: %w", matching.ErrNotFound), true},
		{matching.ErrAccessDenied, true},
		{fmt.Errorf("%w: dial tcp", matching.ErrStorageUnavailable), true},
		{matching.ErrInvalidStatus, true},
		{matching.ErrForbiddenTransition, true},
		{fmt.Errorf("boom"), false},
	}

	for _, tc := range cases {
		if got := hint(tc.err) != ""; got != tc.want {
			t.Fatalf("hint(%v) present = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestTransitionHintNamesEveryMove(t *testing.T) {
	h := hint(matching.ErrForbiddenTransition)
	for _, st := range []string{"pending", "shortlisted", "contacted", "rejected"} {
		if !strings.Contains(h, st) {
			t.Fatalf("expected %q in hint %q", st, h)
		}
	}
}

func TestResolveDatabaseURL(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "dsn")
	if err := os.WriteFile(file, []byte("postgres://from-file\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := resolveDatabaseURL(&Config{Database: &DatabaseConfig{URL: "postgres://inline", URLFile: file}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "postgres://from-file" {
		t.Fatalf("expected the file to win, got %q", got)
	}

	got, err = resolveDatabaseURL(&Config{Database: &DatabaseConfig{URL: " postgres://inline "}})
	if err != nil || got != "postgres://inline" {
		t.Fatalf("unexpected result: %q, %v", got, err)
	}

	if _, err := resolveDatabaseURL(&Config{Database: &DatabaseConfig{}}); err == nil {
		t.Fatalf("expected an error when nothing is configured")
	}
}

func TestMatchLabelCarriesMatchID(t *testing.T) {
	r := matching.RankedMatch{}
	r.ID = uuid.MustParse("6f1c2d3e-4a5b-4c6d-8e7f-901a2b3c4d5e")
	r.CandidateID = 9
	r.Scores.Overall = 71
	r.RecruiterStatus = matching.StatusPending

	label := matchLabel(3, r)
	want := fmt.Sprintf("#3 %s candidate 9 / score 71 / pending", r.ID)
	if label != want {
		t.Fatalf("unexpected label %q, want %q", label, want)
	}
}

func TestVersionCommand(t *testing.T) {
	var out strings.Builder
	versionCmd.SetOut(&out)
	t.Cleanup(func() { versionCmd.SetOut(nil) })

	versionCmd.Run(versionCmd, nil)

	if got := out.String(); got != "cvbank version: unknown\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

package report

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/spigell/cvbank/internal/matching"

	"github.com/google/uuid"
)

func sample() []matching.RankedMatch {
	first := matching.RankedMatch{Candidate: matching.CandidateProfile{FullName: "Lana Aziz", City: "Erbil"}}
	first.ID = uuid.New()
	first.CandidateID = 10
	first.Scores = matching.Scores{Overall: 100, Skills: 100}
	first.Explanation.Skills = "Candidate matches 2 of 2 required skills: JavaScript, React."
	first.Highlights = []string{matching.HighlightSkills}
	first.RecruiterStatus = matching.StatusShortlisted

	second := matching.RankedMatch{}
	second.ID = uuid.New()
	second.CandidateID = 11
	second.Scores = matching.Scores{Overall: 29}
	second.Gaps = []string{matching.GapSkills, matching.GapExperience}
	second.RecruiterStatus = matching.StatusPending
	second.RecruiterNotes = "maybe later"

	return []matching.RankedMatch{first, second}
}

func TestWrite(t *testing.T) {
	out := String(sample())

	for _, want := range []string{
		"#1 Lana Aziz (candidate 10): score 100 [shortlisted]",
		"  Skills (100): Candidate matches 2 of 2 required skills: JavaScript, React.",
		"  Highlights: Strong skill match with job requirements",
		"#2 Candidate 11 (candidate 11): score 29 [pending]",
		"  Gaps: Some required skills may be missing, Experience level below requirements",
		"  Notes: maybe later",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected report to contain %q, got:\n%s", want, out)
		}
	}
}

func TestByStatus(t *testing.T) {
	report := ByStatus(sample())

	entries, ok := report["shortlisted"]
	if !ok {
		t.Fatalf("expected shortlisted key in report")
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	entry := entries[0]
	if entry.Candidate != "Lana Aziz" || entry.City != "Erbil" || entry.Overall != 100 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.Highlights != matching.HighlightSkills {
		t.Fatalf("unexpected highlights: %q", entry.Highlights)
	}
}

func TestEntriesKeepRankOrder(t *testing.T) {
	entries := Entries(sample())
	if len(entries) != 2 || entries[0].Overall != 100 || entries[1].Overall != 29 {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestDumpToTmpFile(t *testing.T) {
	name, err := DumpToTmpFile(sample())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = os.Remove(name) })

	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("reading dump: %v", err)
	}

	var decoded []matching.RankedMatch
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decoding dump: %v", err)
	}
	if len(decoded) != 2 || decoded[0].Candidate.FullName != "Lana Aziz" {
		t.Fatalf("unexpected dump content: %+v", decoded)
	}
}

func TestWriteJSONEntries(t *testing.T) {
	var b strings.Builder
	if err := WriteJSON(&b, Entries(sample())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(b.String(), "\n") {
		t.Fatalf("expected a trailing newline")
	}

	var decoded []Entry
	if err := json.Unmarshal([]byte(b.String()), &decoded); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(decoded) != 2 || decoded[1].Gaps != matching.GapSkills+"; "+matching.GapExperience {
		t.Fatalf("unexpected entries: %+v", decoded)
	}
}

func TestWriteJSONFailsOnBrokenWriter(t *testing.T) {
	if err := WriteJSON(failingWriter{}, ByStatus(sample())); err == nil {
		t.Fatalf("expected the write error to surface")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, os.ErrClosed }

// Package report renders ranked matches for people and for files.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spigell/cvbank/internal/matching"

	"github.com/ecodeclub/ekit/slice"
)

// Entry is the flattened view of one match used by the grouped report.
type Entry struct {
	MatchID    string `json:"matchId"`
	Candidate  string `json:"candidate"`
	Overall    int    `json:"overall"`
	Status     string `json:"status"`
	City       string `json:"city,omitempty"`
	Highlights string `json:"highlights,omitempty"`
	Gaps       string `json:"gaps,omitempty"`
}

// Write prints a ranked, human-readable report of the matches.
func Write(w io.Writer, m []matching.RankedMatch) error {
	var b strings.Builder
	for i, r := range m {
		fmt.Fprintf(&b, "#%d %s (candidate %d): score %d [%s]\n",
			i+1, displayName(r), r.CandidateID, r.Scores.Overall, r.RecruiterStatus)
		fmt.Fprintf(&b, "  Match: %s\n", r.ID)
		fmt.Fprintf(&b, "  Skills (%d): %s\n", r.Scores.Skills, r.Explanation.Skills)
		fmt.Fprintf(&b, "  Experience (%d): %s\n", r.Scores.Experience, r.Explanation.Experience)
		fmt.Fprintf(&b, "  Education (%d): %s\n", r.Scores.Education, r.Explanation.Education)
		fmt.Fprintf(&b, "  Location (%d): %s\n", r.Scores.Location, r.Explanation.Location)
		fmt.Fprintf(&b, "  Salary (%d): %s\n", r.Scores.Salary, r.Explanation.Salary)
		fmt.Fprintf(&b, "  Industry (%d): %s\n", r.Scores.Industry, r.Explanation.Industry)
		fmt.Fprintf(&b, "  Summary: %s\n", r.Summary)
		if len(r.Highlights) > 0 {
			fmt.Fprintf(&b, "  Highlights: %s\n", strings.Join(r.Highlights, ", "))
		}
		if len(r.Gaps) > 0 {
			fmt.Fprintf(&b, "  Gaps: %s\n", strings.Join(r.Gaps, ", "))
		}
		if r.RecruiterNotes != "" {
			fmt.Fprintf(&b, "  Notes: %s\n", r.RecruiterNotes)
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// String is Write into a string.
func String(m []matching.RankedMatch) string {
	var b strings.Builder
	_ = Write(&b, m)
	return b.String()
}

// ByStatus groups matches by recruiter status, keeping rank order inside
// each group.
func ByStatus(m []matching.RankedMatch) map[string][]Entry {
	report := make(map[string][]Entry)
	for _, e := range Entries(m) {
		report[e.Status] = append(report[e.Status], e)
	}
	return report
}

// Entries flattens the matches in rank order.
func Entries(m []matching.RankedMatch) []Entry {
	return slice.Map(m, func(_ int, r matching.RankedMatch) Entry {
		return toEntry(r)
	})
}

func toEntry(r matching.RankedMatch) Entry {
	return Entry{
		MatchID:    r.ID.String(),
		Candidate:  displayName(r),
		Overall:    r.Scores.Overall,
		Status:     string(r.RecruiterStatus),
		City:       r.Candidate.City,
		Highlights: strings.Join(r.Highlights, "; "),
		Gaps:       strings.Join(r.Gaps, "; "),
	}
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// DumpToTmpFile writes the matches as indented JSON to a new temp file and
// returns its name.
func DumpToTmpFile(m []matching.RankedMatch) (string, error) {
	file, err := os.CreateTemp("", "matches_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := WriteJSON(file, m); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func displayName(r matching.RankedMatch) string {
	if name := strings.TrimSpace(r.Candidate.FullName); name != "" {
		return name
	}
	return fmt.Sprintf("Candidate %d", r.CandidateID)
}

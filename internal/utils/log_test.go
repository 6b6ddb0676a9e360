package utils

import (
	"strings"
	"testing"
)

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	longNote := strings.Repeat("n", 70)

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{name: "non-positive limit drops everything", input: "call back on monday", limit: 0, expect: ""},
		{name: "short note is kept", input: "call back", limit: 64, expect: "call back"},
		{name: "note at the limit is kept", input: longNote[:64], limit: 64, expect: longNote[:64]},
		{name: "long note is cut", input: longNote, limit: 64, expect: longNote[:64] + "..."},
		{name: "cut counts runes", input: "Erbil – Kurdistan", limit: 7, expect: "Erbil –..."},
		{name: "surrounding space is trimmed first", input: "  spaced  ", limit: 5, expect: "space..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

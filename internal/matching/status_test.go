package matching

import (
	"errors"
	"testing"
)

func TestParseReviewStatus(t *testing.T) {
	for _, in := range []string{"shortlisted", " Contacted ", "REJECTED"} {
		if _, err := ParseReviewStatus(in); err != nil {
			t.Fatalf("ParseReviewStatus(%q) unexpected error: %v", in, err)
		}
	}

	for _, in := range []string{"pending", "hired", "archived", ""} {
		_, err := ParseReviewStatus(in)
		if !errors.Is(err, ErrInvalidStatus) {
			t.Fatalf("ParseReviewStatus(%q) expected ErrInvalidStatus, got %v", in, err)
		}
	}
}

func TestParseStatusKnowsHired(t *testing.T) {
	st, err := ParseStatus("hired")
	if err != nil || st != StatusHired {
		t.Fatalf("expected hired, got %q (%v)", st, err)
	}
	if st.Reviewable() {
		t.Fatalf("hired must not be reviewable")
	}
}

func TestIsTransitionAllowed(t *testing.T) {
	tests := []struct {
		from, to RecruiterStatus
		want     bool
	}{
		{StatusPending, StatusShortlisted, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusContacted, false},
		{StatusShortlisted, StatusContacted, true},
		{StatusShortlisted, StatusRejected, true},
		{StatusShortlisted, StatusPending, false},
		{StatusContacted, StatusRejected, false},
		{StatusRejected, StatusShortlisted, false},
		{StatusHired, StatusRejected, false},
	}

	for _, tt := range tests {
		if got := IsTransitionAllowed(tt.from, tt.to); got != tt.want {
			t.Fatalf("IsTransitionAllowed(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

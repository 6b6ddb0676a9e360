package matching

import (
	"fmt"
	"slices"
	"strings"
)

// RecruiterStatus is the review state of a match.
//
// Optional workflow, enforced only in strict mode:
//
//	pending ──► shortlisted ──► contacted
//	   │             │
//	   └─────────────┴──► rejected
//
// contacted and rejected are terminal. hired exists in the data model but
// is not reachable through the status write path.
type RecruiterStatus string

const (
	StatusPending     RecruiterStatus = "pending"
	StatusShortlisted RecruiterStatus = "shortlisted"
	StatusContacted   RecruiterStatus = "contacted"
	StatusRejected    RecruiterStatus = "rejected"
	StatusHired       RecruiterStatus = "hired"
)

var validTransitions = map[RecruiterStatus][]RecruiterStatus{
	StatusPending:     {StatusShortlisted, StatusRejected},
	StatusShortlisted: {StatusContacted, StatusRejected},
}

// ParseStatus converts a raw string to any known RecruiterStatus.
func ParseStatus(s string) (RecruiterStatus, error) {
	st := RecruiterStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusPending, StatusShortlisted, StatusContacted, StatusRejected, StatusHired:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// ParseReviewStatus accepts only the statuses a recruiter may set.
func ParseReviewStatus(s string) (RecruiterStatus, error) {
	st, err := ParseStatus(s)
	if err != nil {
		return "", err
	}
	if !st.Reviewable() {
		return "", fmt.Errorf("%w: %q cannot be set by a reviewer", ErrInvalidStatus, s)
	}
	return st, nil
}

// Reviewable reports whether a recruiter may set this status.
func (s RecruiterStatus) Reviewable() bool {
	return s == StatusShortlisted || s == StatusContacted || s == StatusRejected
}

// IsTransitionAllowed reports whether from → to is permitted by the workflow.
func IsTransitionAllowed(from, to RecruiterStatus) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}
	return slices.Contains(allowed, to)
}

// ReviewStatuses lists the statuses a recruiter may set, in display order.
func ReviewStatuses() []RecruiterStatus {
	return []RecruiterStatus{StatusShortlisted, StatusContacted, StatusRejected}
}

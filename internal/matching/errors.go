package matching

import "errors"

var (
	// ErrNotFound is returned when a job or match does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAccessDenied is returned when the requester does not own the job.
	ErrAccessDenied = errors.New("access denied")
	// ErrStorageUnavailable is returned when the store cannot be reached.
	// It is propagated as is; retries belong to the store.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrInvalidStatus is returned for statuses the write path does not accept.
	ErrInvalidStatus = errors.New("invalid recruiter status")
	// ErrForbiddenTransition is returned when strict transitions are enabled
	// and the state machine rejects the move.
	ErrForbiddenTransition = errors.New("status transition is not allowed")
)

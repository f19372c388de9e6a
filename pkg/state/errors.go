package state

import "errors"

var (
	// ErrNotFound indicates no record exists for the user yet.
	ErrNotFound = errors.New("state: record not found")

	// ErrVersionConflict indicates the stored version did not match the
	// expected version, i.e. another writer committed in between.
	ErrVersionConflict = errors.New("state: version conflict")

	// ErrUnavailable wraps backend failures (connection refused, timeouts).
	// Joined with the underlying error so callers can still inspect it.
	ErrUnavailable = errors.New("state: storage unavailable")
)

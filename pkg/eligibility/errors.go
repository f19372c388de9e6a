package eligibility

import (
	"errors"
	"fmt"
)

var (
	// ErrTransientConflict indicates the optimistic-concurrency retry budget
	// was exhausted during commit. Eligible for a single caller-level retry
	// with backoff; recurrence should surface as a retryable service error.
	ErrTransientConflict = errors.New("eligibility: transient conflict")

	// ErrStorageUnavailable indicates the persistence collaborator failed.
	// The current request fails with no assumption of partial commit.
	ErrStorageUnavailable = errors.New("eligibility: storage unavailable")

	// ErrNoPendingRequest indicates a commit arrived for a user with no
	// request awaiting one: never allowed, already finished, or expired.
	ErrNoPendingRequest = errors.New("eligibility: no pending request")
)

// InvalidTransitionError reports an attempted lifecycle transition the
// request state machine does not permit.
type InvalidTransitionError struct {
	From State
	To   State
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("eligibility: invalid transition from %q to %q", e.From, e.To)
}

package quota

import "errors"

var (
	// ErrTransientConflict indicates the optimistic-concurrency retry budget
	// was exhausted. Safe for a single caller-level retry with backoff.
	ErrTransientConflict = errors.New("quota: transient conflict, retry budget exhausted")
)

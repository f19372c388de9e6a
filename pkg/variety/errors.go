package variety

import "errors"

var (
	// ErrTransientConflict indicates the optimistic-concurrency retry budget
	// was exhausted while appending.
	ErrTransientConflict = errors.New("variety: transient conflict, retry budget exhausted")

	// ErrEmptyHook rejects appends of empty strings, which would poison the
	// prohibited-hooks list handed to the generator.
	ErrEmptyHook = errors.New("variety: hook cannot be empty")
)

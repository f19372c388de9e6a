package persona

import "errors"

var (
	// ErrForbiddenPersona indicates a non-admin requested an admin-scoped
	// persona. Terminal business denial, never retried.
	ErrForbiddenPersona = errors.New("persona: forbidden persona")

	// ErrPersonaNotFound indicates the catalog has no persona with the
	// requested id.
	ErrPersonaNotFound = errors.New("persona: not found")

	// ErrNoDefaultPersona indicates the catalog cannot produce a default
	// persona for the user, which is a configuration defect.
	ErrNoDefaultPersona = errors.New("persona: no default persona configured")
)

package subscription

import "errors"

var (
	// ErrNotFound indicates no subscription record exists for the user.
	ErrNotFound = errors.New("subscription: not found")

	// ErrSourceUnavailable wraps billing-store failures. Joined with the
	// underlying error so callers can still inspect it.
	ErrSourceUnavailable = errors.New("subscription: source unavailable")
)

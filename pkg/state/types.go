package state

import (
	"time"

	"github.com/google/uuid"
)

// QuotaRecord holds a user's monthly generation counter.
// PostsThisMonth accumulates within the calendar-month window anchored at
// ResetAt and is never negative.
type QuotaRecord struct {
	UserID         uuid.UUID `json:"user_id"`
	PostsThisMonth int64     `json:"posts_this_month"`
	ResetAt        time.Time `json:"posts_reset_at"`
	Version        int64     `json:"version"`
}

// WindowRecord holds a user's recent opening-line hooks, most recent last.
// Length never exceeds the window capacity after a committed mutation.
type WindowRecord struct {
	UserID  uuid.UUID `json:"user_id"`
	Hooks   []string  `json:"hooks"`
	Version int64     `json:"version"`
}

package quota

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/postkit/pkg/state"
)

// DefaultRetryAttempts bounds optimistic-concurrency retries before the
// operation is reported as a transient conflict.
const DefaultRetryAttempts = 3

// Usage describes the current quota position for dashboard surfaces.
type Usage struct {
	Used     int64     `json:"used"`
	Limit    int64     `json:"limit"`
	ResetsAt time.Time `json:"resets_at"`
}

// Tracker maintains per-user monthly counters on top of a state.Store.
type Tracker struct {
	store    state.Store
	attempts int
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithRetryAttempts overrides the CAS retry budget. Values below 1 are ignored.
func WithRetryAttempts(n int) TrackerOption {
	return func(t *Tracker) {
		if n >= 1 {
			t.attempts = n
		}
	}
}

// NewTracker creates a Tracker. Panics on nil store to fail fast during
// initialization.
func NewTracker(store state.Store, opts ...TrackerOption) *Tracker {
	if store == nil {
		panic("quota: state.Store is required")
	}
	t := &Tracker{store: store, attempts: DefaultRetryAttempts}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// CheckAndReset loads the user's quota record, creating a zeroed record
// anchored at now on first access, and applies any due calendar-month reset.
// The read-or-reset step is atomic per user: when concurrent callers straddle
// a boundary exactly one of them persists the reset and the rest observe it.
func (t *Tracker) CheckAndReset(ctx context.Context, userID uuid.UUID, now time.Time) (state.QuotaRecord, error) {
	for range t.attempts {
		rec, err := t.store.GetQuota(ctx, userID)
		switch {
		case errors.Is(err, state.ErrNotFound):
			rec = state.QuotaRecord{UserID: userID, ResetAt: now}
			if err := t.store.UpsertQuota(ctx, rec, 0); err != nil {
				if errors.Is(err, state.ErrVersionConflict) {
					continue // another caller created it first
				}
				return state.QuotaRecord{}, err
			}
			rec.Version = 1
			return rec, nil
		case err != nil:
			return state.QuotaRecord{}, err
		}

		advanced, reset := Advance(rec, now)
		if !reset {
			return rec, nil
		}
		if err := t.store.UpsertQuota(ctx, advanced, rec.Version); err != nil {
			if errors.Is(err, state.ErrVersionConflict) {
				continue
			}
			return state.QuotaRecord{}, err
		}
		advanced.Version = rec.Version + 1
		return advanced, nil
	}
	return state.QuotaRecord{}, ErrTransientConflict
}

// CommitConsumption atomically increments the user's counter by exactly one,
// re-validating the reset condition at commit time: a request straddling a
// boundary between check and commit still resets before incrementing.
// Returns the new counter value.
func (t *Tracker) CommitConsumption(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	for range t.attempts {
		rec, err := t.store.GetQuota(ctx, userID)
		expected := int64(0)
		switch {
		case errors.Is(err, state.ErrNotFound):
			rec = state.QuotaRecord{UserID: userID, ResetAt: now}
		case err != nil:
			return 0, err
		default:
			expected = rec.Version
			rec, _ = Advance(rec, now)
		}

		rec.PostsThisMonth++
		if err := t.store.UpsertQuota(ctx, rec, expected); err != nil {
			if errors.Is(err, state.ErrVersionConflict) {
				continue
			}
			return 0, err
		}
		return rec.PostsThisMonth, nil
	}
	return 0, ErrTransientConflict
}

// CurrentUsage returns the user's counter, limit, and next boundary without
// persisting anything. A due-but-unpersisted reset is reflected in the
// returned values so dashboards never show stale counts.
func (t *Tracker) CurrentUsage(ctx context.Context, userID uuid.UUID, now time.Time, limit int64) (Usage, error) {
	rec, err := t.store.GetQuota(ctx, userID)
	if errors.Is(err, state.ErrNotFound) {
		rec = state.QuotaRecord{UserID: userID, ResetAt: now}
	} else if err != nil {
		return Usage{}, err
	}

	rec, _ = Advance(rec, now)
	return Usage{
		Used:     rec.PostsThisMonth,
		Limit:    limit,
		ResetsAt: NextReset(rec.ResetAt),
	}, nil
}

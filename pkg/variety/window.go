package variety

import (
	"context"
	"errors"
	"slices"

	"github.com/google/uuid"

	"github.com/dmitrymomot/postkit/pkg/state"
)

// Capacity is the number of recent hooks retained per user.
const Capacity = 5

// DefaultRetryAttempts bounds optimistic-concurrency retries before an
// append is reported as a transient conflict.
const DefaultRetryAttempts = 3

// AppendTrim appends hook to hooks and trims to the capacity most recent
// entries, oldest dropped first, as a pure function. The input slice is not
// mutated.
func AppendTrim(hooks []string, hook string, capacity int) []string {
	out := make([]string, 0, len(hooks)+1)
	out = append(out, hooks...)
	out = append(out, hook)
	if len(out) > capacity {
		out = out[len(out)-capacity:]
	}
	return out
}

// Window provides per-user recent-hook history on top of a state.Store.
type Window struct {
	store    state.Store
	capacity int
	attempts int
}

// WindowOption configures a Window.
type WindowOption func(*Window)

// WithCapacity overrides the retained-hook count. Values below 1 are ignored.
func WithCapacity(n int) WindowOption {
	return func(w *Window) {
		if n >= 1 {
			w.capacity = n
		}
	}
}

// WithRetryAttempts overrides the CAS retry budget. Values below 1 are ignored.
func WithRetryAttempts(n int) WindowOption {
	return func(w *Window) {
		if n >= 1 {
			w.attempts = n
		}
	}
}

// NewWindow creates a Window. Panics on nil store to fail fast during
// initialization.
func NewWindow(store state.Store, opts ...WindowOption) *Window {
	if store == nil {
		panic("variety: state.Store is required")
	}
	w := &Window{store: store, capacity: Capacity, attempts: DefaultRetryAttempts}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Capacity returns the configured window capacity.
func (w *Window) Capacity() int {
	return w.capacity
}

// AppendAndTrim atomically appends hook, trims to the capacity most recent
// entries, and persists the result. An append for a user with no prior
// record creates a one-element window. Returns the committed window.
func (w *Window) AppendAndTrim(ctx context.Context, userID uuid.UUID, hook string) ([]string, error) {
	if hook == "" {
		return nil, ErrEmptyHook
	}

	for range w.attempts {
		rec, err := w.store.GetWindow(ctx, userID)
		expected := int64(0)
		switch {
		case errors.Is(err, state.ErrNotFound):
			rec = state.WindowRecord{UserID: userID}
		case err != nil:
			return nil, err
		default:
			expected = rec.Version
		}

		rec.Hooks = AppendTrim(rec.Hooks, hook, w.capacity)
		if err := w.store.UpsertWindow(ctx, rec, expected); err != nil {
			if errors.Is(err, state.ErrVersionConflict) {
				continue
			}
			return nil, err
		}
		return rec.Hooks, nil
	}
	return nil, ErrTransientConflict
}

// Recent returns up to limit most recent hooks, most recent last. A user
// with no record yields an empty slice. Purely a read; never mutates.
func (w *Window) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]string, error) {
	if limit <= 0 || limit > w.capacity {
		limit = w.capacity
	}

	rec, err := w.store.GetWindow(ctx, userID)
	if errors.Is(err, state.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	hooks := rec.Hooks
	if len(hooks) > limit {
		hooks = hooks[len(hooks)-limit:]
	}
	return slices.Clone(hooks), nil
}

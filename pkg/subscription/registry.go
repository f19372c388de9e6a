package subscription

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Source loads a user's subscription from the billing store.
type Source interface {
	// Get returns the subscription for a user, or ErrNotFound.
	Get(ctx context.Context, userID uuid.UUID) (Subscription, error)
}

// Registry resolves subscription status for eligibility checks.
//
// Users without a subscription record resolve to an active free plan by
// default: signup precedes checkout, and free-tier users never touch the
// billing provider. Use WithoutFreeFallback to surface ErrNotFound instead.
type Registry struct {
	source       Source
	freeFallback bool
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithoutFreeFallback makes GetStatus return ErrNotFound for users with no
// subscription record instead of assuming an active free plan.
func WithoutFreeFallback() RegistryOption {
	return func(r *Registry) { r.freeFallback = false }
}

// NewRegistry creates a Registry. Panics on nil source to fail fast during
// initialization.
func NewRegistry(source Source, opts ...RegistryOption) *Registry {
	if source == nil {
		panic("subscription: Source is required")
	}
	r := &Registry{source: source, freeFallback: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetStatus returns the user's current subscription projection.
func (r *Registry) GetStatus(ctx context.Context, userID uuid.UUID) (Subscription, error) {
	sub, err := r.source.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) && r.freeFallback {
			return Subscription{
				UserID: userID,
				Plan:   PlanFree,
				Status: StatusActive,
			}, nil
		}
		return Subscription{}, err
	}
	return sub, nil
}

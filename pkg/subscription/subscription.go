package subscription

import (
	"time"

	"github.com/google/uuid"
)

// Subscription is the projection of a user's account this engine reads.
// Each user has exactly one subscription; the billing collaborator owns all
// writes.
type Subscription struct {
	UserID             uuid.UUID
	Plan               Plan
	Status             Status
	TrialEndsAt        *time.Time // set only for trialing subscriptions
	BillingCustomerRef string     // opaque provider reference, unused here
	UpdatedAt          time.Time
}

// IsBillingHealthy reports whether the subscription permits generation:
// true iff status is active or trialing. Past-due and canceled accounts are
// denied outright, before any quota is consulted.
func (s *Subscription) IsBillingHealthy() bool {
	return IsBillingHealthy(s.Status)
}

// IsTrialing returns true if the subscription is in trial status.
func (s *Subscription) IsTrialing() bool {
	return s.Status == StatusTrialing
}

// TrialExpiredAt reports whether the trial window had ended by the given
// instant. Useful for testing with fixed time values.
func (s *Subscription) TrialExpiredAt(now time.Time) bool {
	if s.TrialEndsAt == nil {
		return false
	}
	return now.After(*s.TrialEndsAt)
}

// IsBillingHealthy reports whether a status permits generation.
func IsBillingHealthy(status Status) bool {
	return status == StatusActive || status == StatusTrialing
}

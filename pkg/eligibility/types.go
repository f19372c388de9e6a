package eligibility

import (
	"github.com/google/uuid"

	"github.com/dmitrymomot/postkit/pkg/persona"
)

// Reason classifies a denial. Empty on allowed decisions.
type Reason string

const (
	ReasonSubscriptionInactive Reason = "subscription_inactive"
	ReasonQuotaExceeded        Reason = "quota_exceeded"
	ReasonForbiddenPersona     Reason = "forbidden_persona"
)

// Decision is the outcome of an eligibility check.
//
// Allowed decisions carry the resolved persona and the prohibited-hooks list
// the caller must pass to the generator, plus the request id the gate tracks
// until commit, rollback, or expiry. Denied decisions are terminal.
type Decision struct {
	RequestID       uuid.UUID       `json:"request_id,omitempty"`
	Allowed         bool            `json:"allowed"`
	Reason          Reason          `json:"reason,omitempty"`
	ProhibitedHooks []string        `json:"prohibited_hooks,omitempty"`
	Persona         persona.Persona `json:"persona,omitzero"`
}

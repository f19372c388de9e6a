package subscription

// Plan identifies a subscription tier.
type Plan string

const (
	PlanFree     Plan = "free"
	PlanPro      Plan = "pro"
	PlanBusiness Plan = "business"
)

// Valid reports whether the plan is one of the known tiers.
func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanPro, PlanBusiness:
		return true
	}
	return false
}

// Status represents the billing state of a subscription.
type Status string

const (
	StatusActive   Status = "active"
	StatusCanceled Status = "canceled"
	StatusPastDue  Status = "past_due"
	StatusTrialing Status = "trialing"
)

const (
	// Unlimited indicates no monthly cap. Any negative limit is unlimited.
	Unlimited int64 = -1
)

// Limits maps plans to their monthly generation caps. The table is owned by
// the caller and passed into the eligibility gate; missing plans resolve to
// zero, which denies everything rather than failing open.
type Limits map[Plan]int64

// For returns the monthly cap for a plan.
func (l Limits) For(plan Plan) int64 {
	limit, ok := l[plan]
	if !ok {
		return 0
	}
	return limit
}

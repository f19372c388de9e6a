// Package subscription provides a read-only projection of user subscription
// state for eligibility decisions.
//
// The billing collaborator owns UserAccount writes and updates plan/status
// asynchronously through its own pipeline; this package only reads. A
// Registry resolves a user's current plan and billing status through a
// pluggable Source (in-memory for tests, MongoDB for the billing store) and
// can cache lookups with a short TTL so hot-path checks do not hammer the
// billing database.
//
// Plan-to-quota-limit mapping is deliberately not owned here: callers
// configure a Limits table and hand the resolved limit to the quota tracker.
package subscription

// Package eligibility decides whether a generation request may proceed and
// commits its effects exactly once.
//
// Every request walks a fixed lifecycle:
//
//	RECEIVED -> CHECKED -> DENIED
//	RECEIVED -> CHECKED -> ALLOWED -> GENERATING -> COMMITTED
//	RECEIVED -> CHECKED -> ALLOWED -> GENERATING -> ROLLED_BACK
//
// CheckEligibility performs the RECEIVED->CHECKED->{ALLOWED,DENIED} portion:
// it consults the subscription registry (unhealthy billing denies outright,
// before any quota is consulted), the quota tracker, and the persona
// resolver, and hands the caller the prohibited-hooks list for the
// generator. The slow generation call then runs entirely outside this
// package with no lock or transaction held.
//
// Commit and Rollback finish the lifecycle. Commit applies the quota
// increment and the hook append in one transactional scope through
// state.Store.CommitGeneration: both become visible together or not at all,
// with the calendar-month reset re-validated at commit time. Rollback leaves
// state exactly as observed at check time, and a request abandoned after
// ALLOWED rolls back automatically once the commit wait elapses — no quota
// was pre-deducted, so only the logical state machine needs to terminate.
package eligibility

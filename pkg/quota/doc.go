// Package quota tracks a user's monthly generation counter with
// calendar-month resets.
//
// The reset arithmetic is pure (see NextReset and Advance) so boundary
// behavior is unit-testable without a store: a quota period is one calendar
// month, not a fixed 30-day duration, and when the anchor day-of-month has no
// equivalent in the target month the boundary clamps to that month's last
// valid day (Jan 31 -> Feb 28).
//
// Tracker layers the pure functions over a state.Store using optimistic
// compare-and-set with a small bounded retry budget. Concurrent callers for
// the same user observe exactly one reset per boundary crossed and exactly
// one increment per committed consumption.
package quota

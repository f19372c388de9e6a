package quota

import (
	"time"

	"github.com/dmitrymomot/postkit/pkg/state"
)

// NextReset returns the instant exactly one calendar month after anchor.
// The day-of-month is clamped to the last valid day of the target month, so
// an anchor on Jan 31 produces Feb 28 (or Feb 29 in leap years). Time of day
// and location are preserved.
func NextReset(anchor time.Time) time.Time {
	year, month, day := anchor.Date()
	hour, minute, sec := anchor.Clock()

	// Zero day of month+2 normalizes to the last day of month+1.
	lastDay := time.Date(year, month+2, 0, 0, 0, 0, 0, anchor.Location()).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, month+1, day, hour, minute, sec, anchor.Nanosecond(), anchor.Location())
}

// ResetDue reports whether now has crossed the calendar-month boundary
// anchored at rec.ResetAt.
func ResetDue(rec state.QuotaRecord, now time.Time) bool {
	return !now.Before(NextReset(rec.ResetAt))
}

// Advance applies any due reset to rec as a pure function and reports whether
// a reset happened. On reset the counter drops to zero and the anchor moves
// to now, so a crossed boundary can never trigger a second reset.
func Advance(rec state.QuotaRecord, now time.Time) (state.QuotaRecord, bool) {
	if !ResetDue(rec, now) {
		return rec, false
	}
	rec.PostsThisMonth = 0
	rec.ResetAt = now
	return rec, true
}

// CanConsume reports whether one more generation fits under limit.
// A negative limit means unlimited.
func CanConsume(rec state.QuotaRecord, limit int64) bool {
	if limit < 0 {
		return true
	}
	return rec.PostsThisMonth < limit
}

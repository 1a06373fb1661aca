package age

import "time"

// Of computes the display age of an item and whether timing data exists.
// Open items are measured up to now; completed items up to their completion.
// Negative spans clamp to zero.
func Of(createdAt time.Time, completedAt *time.Time, now time.Time) (time.Duration, bool) {
	if createdAt.IsZero() {
		return 0, false
	}
	end := now
	if completedAt != nil && !completedAt.IsZero() {
		end = *completedAt
	}
	span := end.Sub(createdAt)
	if span < 0 {
		return 0, true
	}
	return span, true
}

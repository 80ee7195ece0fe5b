package schedule

import "time"

// IsDue reports whether now falls within the tolerance window around target.
// A zero target is never due.
func IsDue(target, now time.Time, tolerance time.Duration) bool {
	if target.IsZero() {
		return false
	}
	diff := now.Sub(target)
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}

// IsOverdue reports whether now is strictly past target. A zero target is
// never overdue.
func IsOverdue(target, now time.Time) bool {
	if target.IsZero() {
		return false
	}
	return now.After(target)
}

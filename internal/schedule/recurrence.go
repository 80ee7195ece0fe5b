package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/adilzhan17/Reminder_Manager/internal/models"
)

// ErrInvalidRecurrence marks recurrence configuration the calculator cannot
// work with (non-positive interval, unknown type). Reminders carrying it are
// flagged for manual review instead of being retried.
var ErrInvalidRecurrence = errors.New("invalid recurrence configuration")

// NextOccurrence computes the next occurrence of a recurring reminder from an
// explicit reference instant. It never reads the clock, so the result is
// deterministic for a given input.
//
// Monthly recurrence preserves the day of month where valid and clamps to the
// last day of shorter target months (Jan 31 + 1 month = Feb 28/29). Yearly
// recurrence clamps Feb 29 to Feb 28 in non-leap target years.
func NextOccurrence(current time.Time, typ models.RecurrenceType, interval int) (time.Time, error) {
	if interval <= 0 {
		return time.Time{}, fmt.Errorf("%w: interval must be positive, got %d", ErrInvalidRecurrence, interval)
	}

	switch typ {
	case models.RecurrenceDaily:
		return current.AddDate(0, 0, interval), nil
	case models.RecurrenceWeekly:
		return current.AddDate(0, 0, interval*7), nil
	case models.RecurrenceMonthly:
		return addMonthsClamped(current, interval), nil
	case models.RecurrenceYearly:
		return addMonthsClamped(current, interval*12), nil
	default:
		return time.Time{}, fmt.Errorf("%w: unknown recurrence type %q", ErrInvalidRecurrence, typ)
	}
}

// NextAfter advances current past after, jumping directly to the first
// occurrence strictly later than after instead of stepping one interval per
// cycle. It returns the new occurrence and how many occurrences were skipped
// over (zero when a single step was enough).
func NextAfter(current time.Time, typ models.RecurrenceType, interval int, after time.Time) (time.Time, int, error) {
	next, err := NextOccurrence(current, typ, interval)
	if err != nil {
		return time.Time{}, 0, err
	}

	skipped := 0
	for !next.After(after) {
		next, err = NextOccurrence(next, typ, interval)
		if err != nil {
			return time.Time{}, 0, err
		}
		skipped++
	}
	return next, skipped, nil
}

// addMonthsClamped adds months without the normalization time.AddDate does
// (Jan 31 + 1 month must not become Mar 2/3).
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	m := int(month) - 1 + months
	year += m / 12
	month = time.Month(m%12 + 1)

	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()
}

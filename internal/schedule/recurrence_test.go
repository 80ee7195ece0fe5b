package schedule

import (
	"testing"
	"time"

	"github.com/adilzhan17/Reminder_Manager/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func TestNextOccurrence(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		typ      models.RecurrenceType
		interval int
		want     string
	}{
		{"daily", "2024-05-01T10:00:00Z", models.RecurrenceDaily, 1, "2024-05-02T10:00:00Z"},
		{"every 3 days", "2024-05-01T10:00:00Z", models.RecurrenceDaily, 3, "2024-05-04T10:00:00Z"},
		{"weekly", "2024-05-01T10:00:00Z", models.RecurrenceWeekly, 1, "2024-05-08T10:00:00Z"},
		{"biweekly", "2024-05-01T10:00:00Z", models.RecurrenceWeekly, 2, "2024-05-15T10:00:00Z"},
		{"monthly", "2024-03-15T10:00:00Z", models.RecurrenceMonthly, 1, "2024-04-15T10:00:00Z"},
		{"monthly clamp to leap february", "2024-01-31T10:00:00Z", models.RecurrenceMonthly, 1, "2024-02-29T10:00:00Z"},
		{"monthly clamp to short february", "2023-01-31T10:00:00Z", models.RecurrenceMonthly, 1, "2023-02-28T10:00:00Z"},
		{"monthly clamp to 30-day month", "2024-03-31T10:00:00Z", models.RecurrenceMonthly, 1, "2024-04-30T10:00:00Z"},
		{"monthly across year boundary", "2023-11-30T10:00:00Z", models.RecurrenceMonthly, 3, "2024-02-29T10:00:00Z"},
		{"yearly", "2023-06-10T08:30:00Z", models.RecurrenceYearly, 1, "2024-06-10T08:30:00Z"},
		{"yearly clamp feb 29", "2024-02-29T10:00:00Z", models.RecurrenceYearly, 1, "2025-02-28T10:00:00Z"},
		{"yearly feb 29 to leap year", "2024-02-29T10:00:00Z", models.RecurrenceYearly, 4, "2028-02-29T10:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextOccurrence(mustParse(t, tt.current), tt.typ, tt.interval)
			require.NoError(t, err)
			assert.Equal(t, mustParse(t, tt.want), got)
		})
	}
}

func TestNextOccurrenceInvalidInput(t *testing.T) {
	current := mustParse(t, "2024-05-01T10:00:00Z")

	_, err := NextOccurrence(current, models.RecurrenceDaily, 0)
	assert.ErrorIs(t, err, ErrInvalidRecurrence)

	_, err = NextOccurrence(current, models.RecurrenceDaily, -2)
	assert.ErrorIs(t, err, ErrInvalidRecurrence)

	_, err = NextOccurrence(current, models.RecurrenceType("fortnightly"), 1)
	assert.ErrorIs(t, err, ErrInvalidRecurrence)
}

func TestNextOccurrenceStrictlyIncreasing(t *testing.T) {
	types := []models.RecurrenceType{
		models.RecurrenceDaily,
		models.RecurrenceWeekly,
		models.RecurrenceMonthly,
		models.RecurrenceYearly,
	}

	for _, typ := range types {
		current := mustParse(t, "2024-01-31T23:59:00Z")
		for i := 0; i < 50; i++ {
			next, err := NextOccurrence(current, typ, 1)
			require.NoError(t, err)
			assert.True(t, next.After(current), "%s occurrence %d must be strictly later", typ, i)
			current = next
		}
	}
}

func TestNextAfterJumpsToFirstFutureOccurrence(t *testing.T) {
	current := mustParse(t, "2024-05-01T10:00:00Z")
	after := mustParse(t, "2024-05-08T09:00:00Z") // a week missed on a daily reminder

	next, skipped, err := NextAfter(current, models.RecurrenceDaily, 1, after)
	require.NoError(t, err)
	// 05-08 10:00 is already strictly after 05-08 09:00, so the jump lands
	// there; the occurrences for 05-02 through 05-07 were skipped over.
	assert.Equal(t, mustParse(t, "2024-05-08T10:00:00Z"), next)
	assert.Equal(t, 6, skipped)
}

func TestNextAfterSingleStep(t *testing.T) {
	current := mustParse(t, "2024-05-01T10:00:00Z")
	after := mustParse(t, "2024-05-01T12:00:00Z")

	next, skipped, err := NextAfter(current, models.RecurrenceDaily, 1, after)
	require.NoError(t, err)
	assert.Equal(t, mustParse(t, "2024-05-02T10:00:00Z"), next)
	assert.Zero(t, skipped)
}

func TestNextAfterInvalidConfig(t *testing.T) {
	current := mustParse(t, "2024-05-01T10:00:00Z")
	_, _, err := NextAfter(current, models.RecurrenceMonthly, 0, current)
	assert.ErrorIs(t, err, ErrInvalidRecurrence)
}

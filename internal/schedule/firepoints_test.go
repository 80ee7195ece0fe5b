package schedule

import (
	"testing"
	"time"

	"github.com/adilzhan17/Reminder_Manager/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timePtr(t time.Time) *time.Time { return &t }

func firePointKeys(points []FirePoint) []string {
	keys := make([]string, 0, len(points))
	for _, p := range points {
		keys = append(keys, p.Key)
	}
	return keys
}

func TestResolveFirePointsDueFallback(t *testing.T) {
	due := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	r := &models.Reminder{DueDate: due}

	points := ResolveFirePoints(r)
	require.Len(t, points, 1)
	assert.Equal(t, FireDue, points[0].Kind)
	assert.Equal(t, due, points[0].At)
}

func TestResolveFirePointsReminderTimeReplacesDue(t *testing.T) {
	due := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	remindAt := due.Add(-2 * time.Hour)
	r := &models.Reminder{DueDate: due, ReminderTime: timePtr(remindAt)}

	points := ResolveFirePoints(r)
	require.Len(t, points, 1)
	assert.Equal(t, FireReminderTime, points[0].Kind)
	assert.Equal(t, remindAt, points[0].At)
	assert.NotContains(t, firePointKeys(points), models.FireKeyDue)
}

func TestResolveFirePointsPreDueOffsets(t *testing.T) {
	due := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	r := &models.Reminder{
		DueDate:             due,
		ReminderTime:        timePtr(due),
		PreDueNotifications: []int{1, 3, 7},
	}

	points := ResolveFirePoints(r)
	require.Len(t, points, 4)

	byKey := map[string]FirePoint{}
	for _, p := range points {
		byKey[p.Key] = p
	}

	for _, days := range []int{1, 3, 7} {
		p, ok := byKey[models.PreDueFireKey(days)]
		require.True(t, ok, "missing pre_due_%d", days)
		assert.Equal(t, FirePreDue, p.Kind)
		assert.Equal(t, days, p.LeadDays)
		// Same time of day as the due date, n days earlier.
		assert.Equal(t, due.AddDate(0, 0, -days), p.At)
	}
}

func TestResolveFirePointsNotificationTimeOverridesPreDue(t *testing.T) {
	due := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	headsUp := due.Add(-36 * time.Hour)
	r := &models.Reminder{
		DueDate:             due,
		NotificationTime:    timePtr(headsUp),
		PreDueNotifications: []int{1, 3},
	}

	points := ResolveFirePoints(r)
	keys := firePointKeys(points)

	assert.Contains(t, keys, models.FireKeyNotificationTime)
	assert.NotContains(t, keys, models.PreDueFireKey(1))
	assert.NotContains(t, keys, models.PreDueFireKey(3))
}

func TestResolveFirePointsExcludesSent(t *testing.T) {
	due := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	r := &models.Reminder{
		DueDate:             due,
		ReminderTime:        timePtr(due),
		PreDueNotifications: []int{1, 3},
		NotificationsSent: map[string]time.Time{
			models.FireKeyReminderTime: due.Add(-time.Minute),
			models.PreDueFireKey(3):    due.AddDate(0, 0, -3),
		},
	}

	points := ResolveFirePoints(r)
	keys := firePointKeys(points)

	assert.Equal(t, []string{models.PreDueFireKey(1)}, keys)
}

func TestResolveFirePointsIgnoresNonPositiveLeadTimes(t *testing.T) {
	due := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	r := &models.Reminder{
		DueDate:             due,
		ReminderTime:        timePtr(due),
		PreDueNotifications: []int{0, -1, 2},
	}

	points := ResolveFirePoints(r)
	keys := firePointKeys(points)

	assert.Equal(t, []string{models.FireKeyReminderTime, models.PreDueFireKey(2)}, keys)
}

func TestResolveFirePointsAllSentIsEmpty(t *testing.T) {
	due := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	r := &models.Reminder{
		DueDate: due,
		NotificationsSent: map[string]time.Time{
			models.FireKeyDue: due,
		},
	}

	assert.Empty(t, ResolveFirePoints(r))
}

package schedule

import (
	"time"

	"github.com/adilzhan17/Reminder_Manager/internal/models"
)

type FireKind string

const (
	FireDue              FireKind = "DUE"
	FireReminderTime     FireKind = "REMINDER_TIME"
	FireNotificationTime FireKind = "NOTIFICATION_TIME"
	FirePreDue           FireKind = "PRE_DUE"
)

// FirePoint is one (kind, instant) pair at which a notification should be
// attempted for a reminder's current occurrence.
type FirePoint struct {
	Kind FireKind
	// Key identifies the fire point in the reminder's sent-set.
	Key string
	At  time.Time
	// LeadDays is set for PRE_DUE points only.
	LeadDays int
}

// ResolveFirePoints derives the fire points of a reminder's current occurrence
// that have not been dispatched yet.
//
// REMINDER_TIME and NOTIFICATION_TIME map directly to the stored fields. DUE
// is the fallback "it's time" point used only when no explicit reminderTime is
// set. PRE_DUE points fire n days before the due date at the due date's time
// of day; an explicit notificationTime replaces them as the single advance
// fire point.
func ResolveFirePoints(r *models.Reminder) []FirePoint {
	var points []FirePoint

	if r.ReminderTime != nil && !r.ReminderTime.IsZero() {
		points = append(points, FirePoint{
			Kind: FireReminderTime,
			Key:  models.FireKeyReminderTime,
			At:   *r.ReminderTime,
		})
	} else if !r.DueDate.IsZero() {
		points = append(points, FirePoint{
			Kind: FireDue,
			Key:  models.FireKeyDue,
			At:   r.DueDate,
		})
	}

	if r.NotificationTime != nil && !r.NotificationTime.IsZero() {
		points = append(points, FirePoint{
			Kind: FireNotificationTime,
			Key:  models.FireKeyNotificationTime,
			At:   *r.NotificationTime,
		})
	} else if !r.DueDate.IsZero() {
		for _, days := range r.PreDueNotifications {
			if days <= 0 {
				continue
			}
			points = append(points, FirePoint{
				Kind:     FirePreDue,
				Key:      models.PreDueFireKey(days),
				At:       r.DueDate.AddDate(0, 0, -days),
				LeadDays: days,
			})
		}
	}

	unsent := points[:0]
	for _, p := range points {
		if !r.WasSent(p.Key) {
			unsent = append(unsent, p)
		}
	}
	return unsent
}

package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RecurrenceType string

const (
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
	RecurrenceYearly  RecurrenceType = "yearly"
)

// Reminder represents a due-dated task that can recur and notify the owner
// (and any collaborators) through the configured channels.
type Reminder struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID   `bson:"user_id" json:"user_id"`
	Collaborators []primitive.ObjectID `bson:"collaborators,omitempty" json:"collaborators,omitempty"`
	Title         string               `bson:"title" json:"title"`
	Description   string               `bson:"description,omitempty" json:"description,omitempty"`

	DueDate          time.Time  `bson:"due_date" json:"due_date"`
	ReminderTime     *time.Time `bson:"reminder_time,omitempty" json:"reminder_time,omitempty"`
	NotificationTime *time.Time `bson:"notification_time,omitempty" json:"notification_time,omitempty"`

	// PreDueNotifications holds days-before-due lead times, e.g. [1,3,7].
	PreDueNotifications []int `bson:"pre_due_notifications,omitempty" json:"pre_due_notifications,omitempty"`

	IsCompleted        bool           `bson:"is_completed" json:"is_completed"`
	IsRecurring        bool           `bson:"is_recurring" json:"is_recurring"`
	RecurrenceType     RecurrenceType `bson:"recurrence_type,omitempty" json:"recurrence_type,omitempty"`
	RecurrenceInterval int            `bson:"recurrence_interval,omitempty" json:"recurrence_interval,omitempty"`

	// NotificationsSent records which fire points were already dispatched for
	// the current occurrence, keyed by fire-point key. It is cleared whenever
	// DueDate advances.
	NotificationsSent map[string]time.Time `bson:"notifications_sent,omitempty" json:"notifications_sent,omitempty"`

	// NeedsReview is set when the reminder's recurrence configuration is
	// invalid; flagged reminders are skipped by the worker until fixed.
	NeedsReview bool `bson:"needs_review,omitempty" json:"needs_review,omitempty"`

	LastProcessedAt time.Time `bson:"last_processed_at,omitempty" json:"last_processed_at,omitempty"`

	// Version guards concurrent worker updates (optimistic concurrency).
	Version int64 `bson:"version" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Fire-point keys as stored in NotificationsSent.
const (
	FireKeyDue              = "due"
	FireKeyReminderTime     = "reminder_time"
	FireKeyNotificationTime = "notification_time"
)

// PreDueFireKey builds the sent-set key for a days-before-due lead time.
func PreDueFireKey(days int) string {
	return fmt.Sprintf("pre_due_%d", days)
}

// WasSent reports whether the given fire point was already dispatched for the
// current occurrence.
func (r *Reminder) WasSent(key string) bool {
	if r.NotificationsSent == nil {
		return false
	}
	_, ok := r.NotificationsSent[key]
	return ok
}

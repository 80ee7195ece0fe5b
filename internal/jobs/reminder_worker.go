package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/adilzhan17/Reminder_Manager/internal/models"
	"github.com/adilzhan17/Reminder_Manager/internal/notifier"
	"github.com/adilzhan17/Reminder_Manager/internal/repository"
	"github.com/adilzhan17/Reminder_Manager/internal/schedule"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// workerConcurrency bounds how many reminders are processed at once so a large
// batch does not overwhelm the channel providers.
const workerConcurrency = 10

// ReminderStore is the slice of the reminder repository the worker needs.
type ReminderStore interface {
	FindCandidateReminders(ctx context.Context) ([]models.Reminder, error)
	MarkFirePointSent(ctx context.Context, id primitive.ObjectID, expectedVersion int64, key string, at time.Time) error
	UpdateReminderVersioned(ctx context.Context, id primitive.ObjectID, expectedVersion int64, patch bson.M) error
	FlagForReview(ctx context.Context, id primitive.ObjectID) error
}

// UserStore resolves notification targets.
type UserStore interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
}

// Dispatcher fans one message out to every configured channel.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg *notifier.Message) notifier.DispatchResult
}

// ReminderWorker evaluates every active reminder each cycle: it fires the
// notifications that are due now, abandons stale fire points, and advances
// recurring reminders whose due date has passed.
type ReminderWorker struct {
	store      ReminderStore
	users      UserStore
	dispatcher Dispatcher

	tolerance  time.Duration
	staleAfter time.Duration

	now func() time.Time
}

// NewReminderWorker creates a new instance of ReminderWorker.
func NewReminderWorker(store ReminderStore, users UserStore, dispatcher Dispatcher, tolerance, staleAfter time.Duration) *ReminderWorker {
	return &ReminderWorker{
		store:      store,
		users:      users,
		dispatcher: dispatcher,
		tolerance:  tolerance,
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

// RunCycle processes one batch of candidate reminders. Reminders are handled
// independently: a single reminder failing is logged and skipped. Only a
// failure to load the candidates at all is returned to the trigger.
func (w *ReminderWorker) RunCycle(ctx context.Context) error {
	reminders, err := w.store.FindCandidateReminders(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch candidate reminders: %w", err)
	}

	now := w.now()

	var wg sync.WaitGroup
	sem := make(chan struct{}, workerConcurrency)

	for i := range reminders {
		reminder := reminders[i]
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			if err := w.processReminder(ctx, reminder, now); err != nil {
				logrus.WithField("reminderID", reminder.ID.Hex()).WithError(err).Error("Failed to process reminder")
			}
		}()
	}
	wg.Wait()

	logrus.WithField("count", len(reminders)).Info("Reminder cycle completed")
	return nil
}

func (w *ReminderWorker) processReminder(ctx context.Context, r models.Reminder, now time.Time) error {
	if r.IsRecurring {
		if _, err := schedule.NextOccurrence(r.DueDate, r.RecurrenceType, r.RecurrenceInterval); err != nil {
			logrus.WithFields(logrus.Fields{
				"reminderID": r.ID.Hex(),
				"type":       r.RecurrenceType,
				"interval":   r.RecurrenceInterval,
			}).Warn("Invalid recurrence configuration, flagging for review")
			return w.store.FlagForReview(ctx, r.ID)
		}
	}

	// version tracks the optimistic guard locally; every successful versioned
	// update bumps the stored version by one.
	version := r.Version

	for _, point := range schedule.ResolveFirePoints(&r) {
		// Fire points too far in the past can never be delivered meaningfully;
		// mark them sent without dispatching so they stop being retried.
		if now.Sub(point.At) > w.staleAfter {
			logrus.WithFields(logrus.Fields{
				"reminderID": r.ID.Hex(),
				"firePoint":  point.Key,
				"target":     point.At,
			}).Info("Abandoning stale fire point")
			if err := w.markSent(ctx, r.ID, version, point.Key, now); err != nil {
				return err
			}
			version++
			continue
		}

		// Fire inside the tolerance window, and keep firing late points that
		// are past it but not yet stale: a worker outage or a cycle of failed
		// channels must not lose the notification.
		if !schedule.IsDue(point.At, now, w.tolerance) && !schedule.IsOverdue(point.At, now) {
			continue
		}

		delivered, err := w.fire(ctx, &r, point)
		if err != nil {
			return err
		}
		if !delivered {
			// All channels failed; leave the fire point unsent so the next
			// cycle retries it.
			continue
		}
		if err := w.markSent(ctx, r.ID, version, point.Key, now); err != nil {
			return err
		}
		version++
	}

	if r.IsRecurring && schedule.IsOverdue(r.DueDate, now) {
		return w.advance(ctx, &r, version, now)
	}
	return nil
}

// markSent records a fire point into the sent-set. A lost race means another
// worker run already handled this reminder; drop it until the next cycle.
func (w *ReminderWorker) markSent(ctx context.Context, id primitive.ObjectID, version int64, key string, now time.Time) error {
	err := w.store.MarkFirePointSent(ctx, id, version, key, now)
	if errors.Is(err, repository.ErrConflict) {
		logrus.WithField("reminderID", id.Hex()).Info("Reminder changed concurrently, deferring to next cycle")
		return nil
	}
	return err
}

// fire dispatches one fire point to the owner and every collaborator. The
// point counts as delivered when at least one channel reached the owner;
// collaborator failures are logged but do not hold the fire point open.
func (w *ReminderWorker) fire(ctx context.Context, r *models.Reminder, point schedule.FirePoint) (bool, error) {
	owner, err := w.users.GetUserByID(ctx, r.UserID)
	if err != nil {
		return false, fmt.Errorf("failed to resolve reminder owner: %w", err)
	}

	title, body := composeMessage(r, point)

	result := w.dispatcher.Dispatch(ctx, &notifier.Message{
		User:       *owner,
		ReminderID: r.ID,
		Type:       point.Key,
		Title:      title,
		Body:       body,
	})

	logrus.WithFields(logrus.Fields{
		"reminderID": r.ID.Hex(),
		"firePoint":  point.Key,
		"delivered":  result.Delivered(),
	}).Info("Dispatched fire point")

	if len(r.Collaborators) > 0 {
		collaborators, err := w.users.GetUsersByIDs(ctx, r.Collaborators)
		if err != nil {
			logrus.WithField("reminderID", r.ID.Hex()).WithError(err).Warn("Failed to resolve collaborators")
		}
		for i := range collaborators {
			res := w.dispatcher.Dispatch(ctx, &notifier.Message{
				User:       collaborators[i],
				ReminderID: r.ID,
				Type:       point.Key,
				Title:      title,
				Body:       body,
			})
			if !res.Delivered() {
				logrus.WithFields(logrus.Fields{
					"reminderID": r.ID.Hex(),
					"userID":     collaborators[i].ID.Hex(),
				}).Warn("Failed to notify collaborator")
			}
		}
	}

	return result.Delivered(), nil
}

// advance moves a recurring reminder past its due date: the due date jumps
// directly to the first future occurrence (skipped occurrences are logged, not
// re-fired), the sent-set is cleared, and the reminder/notification times are
// shifted by the same delta so they keep their offset from the due date.
// Completion state is left as the user set it.
func (w *ReminderWorker) advance(ctx context.Context, r *models.Reminder, version int64, now time.Time) error {
	next, skipped, err := schedule.NextAfter(r.DueDate, r.RecurrenceType, r.RecurrenceInterval, now)
	if err != nil {
		return w.store.FlagForReview(ctx, r.ID)
	}

	if skipped > 0 {
		logrus.WithFields(logrus.Fields{
			"reminderID": r.ID.Hex(),
			"skipped":    skipped,
		}).Warn("Skipped missed occurrences while catching up")
	}

	delta := next.Sub(r.DueDate)
	patch := bson.M{
		"due_date":           next,
		"notifications_sent": bson.M{},
		"last_processed_at":  now,
		"updated_at":         time.Now(),
	}
	if r.ReminderTime != nil && !r.ReminderTime.IsZero() {
		patch["reminder_time"] = r.ReminderTime.Add(delta)
	}
	if r.NotificationTime != nil && !r.NotificationTime.IsZero() {
		patch["notification_time"] = r.NotificationTime.Add(delta)
	}

	err = w.store.UpdateReminderVersioned(ctx, r.ID, version, patch)
	if errors.Is(err, repository.ErrConflict) {
		logrus.WithField("reminderID", r.ID.Hex()).Info("Reminder advanced concurrently, deferring to next cycle")
		return nil
	}
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"reminderID": r.ID.Hex(),
		"nextDue":    next,
	}).Info("Advanced recurring reminder")
	return nil
}

func composeMessage(r *models.Reminder, point schedule.FirePoint) (title, body string) {
	switch point.Kind {
	case schedule.FirePreDue:
		title = fmt.Sprintf("⏰ Upcoming: %s", r.Title)
		body = fmt.Sprintf("Your reminder \"%s\" is due on %s (%d day(s) left).", r.Title, r.DueDate.Format("Jan 2, 15:04"), point.LeadDays)
	case schedule.FireNotificationTime:
		title = fmt.Sprintf("⏰ Heads up: %s", r.Title)
		body = fmt.Sprintf("Your reminder \"%s\" is due on %s.", r.Title, r.DueDate.Format("Jan 2, 15:04"))
	default:
		title = fmt.Sprintf("🔔 It's time: %s", r.Title)
		body = fmt.Sprintf("Your reminder \"%s\" is due now.", r.Title)
	}
	if r.Description != "" {
		body = body + " " + r.Description
	}
	return title, body
}

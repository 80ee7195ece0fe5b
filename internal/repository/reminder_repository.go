package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adilzhan17/Reminder_Manager/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrConflict is returned when an optimistic update lost a race with a
// concurrent writer. The caller is expected to re-read on the next cycle.
var ErrConflict = errors.New("reminder was modified concurrently")

// ReminderRepository handles database operations related to reminders.
type ReminderRepository struct {
	collection *mongo.Collection
}

// NewReminderRepository creates a new instance of ReminderRepository.
func NewReminderRepository(db *mongo.Database) *ReminderRepository {
	return &ReminderRepository{
		collection: db.Collection("reminders"),
	}
}

// CreateReminder inserts a new reminder into the database.
func (r *ReminderRepository) CreateReminder(ctx context.Context, reminder *models.Reminder) (*models.Reminder, error) {
	reminder.CreatedAt = time.Now()
	reminder.UpdatedAt = time.Now()
	reminder.Version = 1

	result, err := r.collection.InsertOne(ctx, reminder)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert reminder")
		return nil, fmt.Errorf("failed to insert reminder: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logrus.Error("Failed to cast inserted ID to ObjectID")
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	reminder.ID = insertedID

	return reminder, nil
}

// GetReminderByID retrieves a reminder by its ID.
func (r *ReminderRepository) GetReminderByID(ctx context.Context, id primitive.ObjectID) (*models.Reminder, error) {
	var reminder models.Reminder
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&reminder)
	if err != nil {
		return nil, fmt.Errorf("failed to find reminder: %v", err)
	}
	return &reminder, nil
}

// GetRemindersByUser returns all reminders owned by a user, soonest first.
func (r *ReminderRepository) GetRemindersByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Reminder, error) {
	opts := options.Find().SetSort(bson.D{{Key: "due_date", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reminders: %v", err)
	}
	defer cursor.Close(ctx)

	var reminders []models.Reminder
	if err := cursor.All(ctx, &reminders); err != nil {
		return nil, fmt.Errorf("failed to decode reminders: %v", err)
	}
	return reminders, nil
}

// FindCandidateReminders loads every reminder that still needs evaluation by
// the worker: not completed, not flagged for review, and carrying at least one
// trigger (reminder time, notification time, or a recurrence).
func (r *ReminderRepository) FindCandidateReminders(ctx context.Context) ([]models.Reminder, error) {
	filter := bson.M{
		"is_completed": false,
		"needs_review": bson.M{"$ne": true},
		"$or": []bson.M{
			{"reminder_time": bson.M{"$ne": nil}},
			{"notification_time": bson.M{"$ne": nil}},
			{"is_recurring": true},
		},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidate reminders: %v", err)
	}
	defer cursor.Close(ctx)

	var reminders []models.Reminder
	if err := cursor.All(ctx, &reminders); err != nil {
		return nil, fmt.Errorf("failed to decode candidate reminders: %v", err)
	}
	return reminders, nil
}

// UpdateReminderVersioned applies patch only if the stored version still
// matches expectedVersion, bumping the version on success. Returns ErrConflict
// when another writer got there first.
func (r *ReminderRepository) UpdateReminderVersioned(ctx context.Context, id primitive.ObjectID, expectedVersion int64, patch bson.M) error {
	update := bson.M{
		"$set": patch,
		"$inc": bson.M{"version": 1},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "version": expectedVersion}, update)
	if err != nil {
		logrus.WithField("reminderID", id.Hex()).WithError(err).Error("Failed to update reminder")
		return fmt.Errorf("failed to update reminder: %v", err)
	}
	if result.MatchedCount == 0 {
		return ErrConflict
	}
	return nil
}

// MarkFirePointSent records a dispatched fire point into the sent-set of the
// current occurrence, guarded by the version read at the start of the cycle.
func (r *ReminderRepository) MarkFirePointSent(ctx context.Context, id primitive.ObjectID, expectedVersion int64, key string, at time.Time) error {
	return r.UpdateReminderVersioned(ctx, id, expectedVersion, bson.M{
		"notifications_sent." + key: at,
		"last_processed_at":         at,
		"updated_at":                time.Now(),
	})
}

// FlagForReview marks a reminder whose configuration the worker cannot
// process. Not version-guarded: the flag is sticky regardless of races.
func (r *ReminderRepository) FlagForReview(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"needs_review": true, "updated_at": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("failed to flag reminder for review: %v", err)
	}
	return nil
}

// GetFlaggedReminders returns reminders awaiting manual review.
func (r *ReminderRepository) GetFlaggedReminders(ctx context.Context) ([]models.Reminder, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"needs_review": true})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch flagged reminders: %v", err)
	}
	defer cursor.Close(ctx)

	var reminders []models.Reminder
	if err := cursor.All(ctx, &reminders); err != nil {
		return nil, fmt.Errorf("failed to decode flagged reminders: %v", err)
	}
	return reminders, nil
}

// UpdateReminder replaces user-editable fields of a reminder.
func (r *ReminderRepository) UpdateReminder(ctx context.Context, id primitive.ObjectID, patch bson.M) error {
	patch["updated_at"] = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": patch, "$inc": bson.M{"version": 1}})
	if err != nil {
		logrus.WithField("reminderID", id.Hex()).WithError(err).Error("Failed to update reminder")
		return fmt.Errorf("failed to update reminder: %v", err)
	}
	return nil
}

// AddCollaborator adds a notify target to a reminder.
func (r *ReminderRepository) AddCollaborator(ctx context.Context, id, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$addToSet": bson.M{"collaborators": userID}}, // avoid duplicates
	)
	if err != nil {
		return fmt.Errorf("failed to add collaborator: %v", err)
	}
	return nil
}

// DeleteReminder deletes a reminder from the database.
func (r *ReminderRepository) DeleteReminder(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logrus.WithField("reminderID", id.Hex()).WithError(err).Error("Failed to delete reminder")
		return fmt.Errorf("failed to delete reminder: %v", err)
	}
	return nil
}

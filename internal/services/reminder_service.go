package services

import (
	"context"
	"fmt"

	"github.com/adilzhan17/Reminder_Manager/internal/models"
	"github.com/adilzhan17/Reminder_Manager/internal/repository"
	"github.com/adilzhan17/Reminder_Manager/internal/schedule"
	"github.com/adilzhan17/Reminder_Manager/pkg/logger"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReminderService encapsulates the business logic for reminders.
type ReminderService struct {
	repo     *repository.ReminderRepository
	userRepo *repository.UserRepository
}

// NewReminderService creates a new instance of ReminderService.
func NewReminderService(repo *repository.ReminderRepository, userRepo *repository.UserRepository) *ReminderService {
	return &ReminderService{
		repo:     repo,
		userRepo: userRepo,
	}
}

// CreateReminder validates and stores a new reminder.
func (s *ReminderService) CreateReminder(ctx context.Context, reminder *models.Reminder) (*models.Reminder, error) {
	if reminder.Title == "" {
		logger.Log.Warn("Reminder title is empty during creation")
		return nil, fmt.Errorf("reminder title is required")
	}
	if reminder.DueDate.IsZero() {
		return nil, fmt.Errorf("reminder due date is required")
	}

	if reminder.IsRecurring {
		if reminder.RecurrenceInterval == 0 {
			reminder.RecurrenceInterval = 1
		}
		// Reject configurations the recurrence calculator cannot process.
		if _, err := schedule.NextOccurrence(reminder.DueDate, reminder.RecurrenceType, reminder.RecurrenceInterval); err != nil {
			logger.Log.WithError(err).Warn("Invalid recurrence configuration during creation")
			return nil, err
		}
	}

	created, err := s.repo.CreateReminder(ctx, reminder)
	if err != nil {
		logger.Log.WithError(err).Error("Service failed to create reminder")
		return nil, fmt.Errorf("failed to create reminder: %v", err)
	}

	logger.Log.WithField("reminder_id", created.ID.Hex()).Info("Reminder created in service layer")
	return created, nil
}

// GetReminder retrieves a reminder by its ID.
func (s *ReminderService) GetReminder(ctx context.Context, id string) (*models.Reminder, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		logger.Log.WithField("reminder_id", id).WithError(err).Warn("Invalid reminder ID in GetReminder")
		return nil, fmt.Errorf("invalid reminder ID: %v", err)
	}

	reminder, err := s.repo.GetReminderByID(ctx, objID)
	if err != nil {
		logger.Log.WithField("reminder_id", id).WithError(err).Error("Failed to get reminder from repository")
		return nil, fmt.Errorf("failed to get reminder: %v", err)
	}
	return reminder, nil
}

// GetReminders retrieves all reminders of a user.
func (s *ReminderService) GetReminders(ctx context.Context, userID primitive.ObjectID) ([]models.Reminder, error) {
	reminders, err := s.repo.GetRemindersByUser(ctx, userID)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch reminders")
		return nil, fmt.Errorf("failed to fetch reminders: %v", err)
	}
	return reminders, nil
}

// UpdateReminder applies user edits to a reminder. Editing the schedule resets
// the sent-set and the review flag so the new configuration is re-evaluated
// from scratch.
func (s *ReminderService) UpdateReminder(ctx context.Context, id string, updated *models.Reminder) (*models.Reminder, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		logger.Log.WithField("reminder_id", id).WithError(err).Warn("Invalid reminder ID in UpdateReminder")
		return nil, fmt.Errorf("invalid reminder ID: %v", err)
	}

	if updated.IsRecurring {
		if updated.RecurrenceInterval == 0 {
			updated.RecurrenceInterval = 1
		}
		if _, err := schedule.NextOccurrence(updated.DueDate, updated.RecurrenceType, updated.RecurrenceInterval); err != nil {
			return nil, err
		}
	}

	patch := bson.M{
		"title":                 updated.Title,
		"description":           updated.Description,
		"due_date":              updated.DueDate,
		"reminder_time":         updated.ReminderTime,
		"notification_time":     updated.NotificationTime,
		"pre_due_notifications": updated.PreDueNotifications,
		"is_recurring":          updated.IsRecurring,
		"recurrence_type":       updated.RecurrenceType,
		"recurrence_interval":   updated.RecurrenceInterval,
		"notifications_sent":    bson.M{},
		"needs_review":          false,
	}
	if err := s.repo.UpdateReminder(ctx, objID, patch); err != nil {
		logger.Log.WithField("reminder_id", id).WithError(err).Error("Failed to update reminder")
		return nil, fmt.Errorf("failed to update reminder: %v", err)
	}

	return s.repo.GetReminderByID(ctx, objID)
}

// CompleteReminder marks the current occurrence as completed, which
// suppresses further automatic notifications until recurrence creates a new
// occurrence.
func (s *ReminderService) CompleteReminder(ctx context.Context, id string) (*models.Reminder, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid reminder ID: %v", err)
	}

	if err := s.repo.UpdateReminder(ctx, objID, bson.M{"is_completed": true}); err != nil {
		logrus.WithField("reminder_id", id).WithError(err).Error("Failed to complete reminder")
		return nil, fmt.Errorf("failed to complete reminder: %v", err)
	}

	logrus.WithField("reminder_id", id).Info("Reminder completed")
	return s.repo.GetReminderByID(ctx, objID)
}

// AddCollaborator adds another user as a notify target of the reminder.
func (s *ReminderService) AddCollaborator(ctx context.Context, id string, collaboratorID primitive.ObjectID) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid reminder ID: %v", err)
	}

	// Make sure the target user exists before sharing.
	if _, err := s.userRepo.GetUserByID(ctx, collaboratorID); err != nil {
		return fmt.Errorf("collaborator not found: %v", err)
	}

	if err := s.repo.AddCollaborator(ctx, objID, collaboratorID); err != nil {
		logrus.WithField("reminder_id", id).WithError(err).Error("Failed to add collaborator")
		return fmt.Errorf("failed to add collaborator: %v", err)
	}
	return nil
}

// DeleteReminder removes a reminder from the database.
func (s *ReminderService) DeleteReminder(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		logger.Log.WithField("reminder_id", id).WithError(err).Warn("Invalid reminder ID in DeleteReminder")
		return fmt.Errorf("invalid reminder ID: %v", err)
	}

	if err := s.repo.DeleteReminder(ctx, objID); err != nil {
		logger.Log.WithField("reminder_id", id).WithError(err).Error("Failed to delete reminder")
		return fmt.Errorf("failed to delete reminder: %v", err)
	}

	logger.Log.WithField("reminder_id", id).Info("Reminder deleted successfully in service layer")
	return nil
}

// GetFlaggedReminders returns reminders whose configuration needs manual
// review (admin surface).
func (s *ReminderService) GetFlaggedReminders(ctx context.Context) ([]models.Reminder, error) {
	return s.repo.GetFlaggedReminders(ctx)
}

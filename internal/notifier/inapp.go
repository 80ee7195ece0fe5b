package notifier

import (
	"context"

	"github.com/adilzhan17/Reminder_Manager/internal/models"
	"github.com/adilzhan17/Reminder_Manager/internal/repository"
)

// InAppSender records the notification in the notifications collection, where
// the frontend polls for unread entries.
type InAppSender struct {
	repo *repository.NotificationRepository
}

func NewInAppSender(repo *repository.NotificationRepository) *InAppSender {
	return &InAppSender{repo: repo}
}

func (s *InAppSender) Name() string {
	return "in_app"
}

func (s *InAppSender) Send(ctx context.Context, msg *Message) error {
	notif := &models.Notification{
		UserID:   msg.User.ID,
		Type:     msg.Type,
		Title:    msg.Title,
		Message:  msg.Body,
		Read:     false,
		TargetID: &msg.ReminderID,
	}
	return s.repo.CreateNotification(ctx, notif)
}

package notifier

import (
	"context"

	"github.com/adilzhan17/Reminder_Manager/pkg/email"
)

// EmailSender delivers the message over SMTP to the user's account email.
type EmailSender struct{}

func NewEmailSender() *EmailSender {
	return &EmailSender{}
}

func (s *EmailSender) Name() string {
	return "email"
}

func (s *EmailSender) Send(ctx context.Context, msg *Message) error {
	// net/smtp has no context support; the dispatcher's timeout covers us.
	return email.SendEmail(msg.User.Email, msg.Title, msg.Body)
}

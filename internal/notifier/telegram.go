package notifier

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	tele "gopkg.in/telebot.v4"
)

// TelegramSender delivers the message to the user's linked Telegram chat.
// Users without a linked chat are skipped silently.
type TelegramSender struct {
	bot *tele.Bot
}

// NewTelegramSender builds the sender from a bot token. Long polling is not
// started: the bot is used for outbound sends only.
func NewTelegramSender(token string) (*TelegramSender, error) {
	bot, err := tele.NewBot(tele.Settings{Token: token})
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %v", err)
	}
	return &TelegramSender{bot: bot}, nil
}

func (s *TelegramSender) Name() string {
	return "telegram"
}

func (s *TelegramSender) Send(ctx context.Context, msg *Message) error {
	if msg.User.TelegramChatID == 0 {
		logrus.WithField("userID", msg.User.ID.Hex()).Debug("User has no Telegram chat linked, skipping")
		return ErrSkipped
	}

	text := fmt.Sprintf("🔔 %s\n\n%s", msg.Title, msg.Body)
	_, err := s.bot.Send(&tele.Chat{ID: msg.User.TelegramChatID}, text, &tele.SendOptions{DisableWebPagePreview: true})
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %v", err)
	}
	return nil
}

package notifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTelegramSendSkipsUnlinkedUser(t *testing.T) {
	s := &TelegramSender{}

	msg := testMessage()
	msg.User.TelegramChatID = 0

	err := s.Send(context.Background(), msg)
	assert.ErrorIs(t, err, ErrSkipped)
}

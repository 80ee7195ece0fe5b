package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/adilzhan17/Reminder_Manager/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubSender struct {
	name  string
	err   error
	delay time.Duration
	calls int
}

func (s *stubSender) Name() string { return s.name }

func (s *stubSender) Send(ctx context.Context, msg *Message) error {
	s.calls++
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return s.err
}

func testMessage() *Message {
	return &Message{
		User:       models.User{ID: primitive.NewObjectID(), Email: "user@example.com"},
		ReminderID: primitive.NewObjectID(),
		Type:       models.FireKeyReminderTime,
		Title:      "It's time",
		Body:       "Pay the rent.",
	}
}

func TestDispatchAllChannelsSucceed(t *testing.T) {
	inApp := &stubSender{name: "in_app"}
	email := &stubSender{name: "email"}
	d := NewDispatcher(time.Second, inApp, email)

	result := d.Dispatch(context.Background(), testMessage())

	assert.True(t, result.Delivered())
	require.Len(t, result.Results, 2)
	for _, r := range result.Results {
		assert.True(t, r.Success)
		assert.Empty(t, r.Error)
	}
	assert.Equal(t, 1, inApp.calls)
	assert.Equal(t, 1, email.calls)
}

func TestDispatchPartialFailureIsDelivered(t *testing.T) {
	inApp := &stubSender{name: "in_app"}
	email := &stubSender{name: "email", err: errors.New("smtp: connection refused")}
	d := NewDispatcher(time.Second, inApp, email)

	result := d.Dispatch(context.Background(), testMessage())

	assert.True(t, result.Delivered())

	byChannel := map[string]ChannelResult{}
	for _, r := range result.Results {
		byChannel[r.Channel] = r
	}
	assert.True(t, byChannel["in_app"].Success)
	assert.False(t, byChannel["email"].Success)
	assert.Contains(t, byChannel["email"].Error, "connection refused")
}

func TestDispatchAllChannelsFail(t *testing.T) {
	inApp := &stubSender{name: "in_app", err: errors.New("insert failed")}
	email := &stubSender{name: "email", err: errors.New("smtp down")}
	d := NewDispatcher(time.Second, inApp, email)

	result := d.Dispatch(context.Background(), testMessage())

	assert.False(t, result.Delivered())
}

func TestDispatchSkippedChannelIsNotADelivery(t *testing.T) {
	// A user with no Telegram chat linked: the channel skips, the others fail.
	skipped := &stubSender{name: "telegram", err: ErrSkipped}
	inApp := &stubSender{name: "in_app", err: errors.New("insert failed")}
	email := &stubSender{name: "email", err: errors.New("smtp down")}
	d := NewDispatcher(time.Second, skipped, inApp, email)

	result := d.Dispatch(context.Background(), testMessage())

	// No channel actually delivered, so the fire point must stay open.
	assert.False(t, result.Delivered())

	byChannel := map[string]ChannelResult{}
	for _, r := range result.Results {
		byChannel[r.Channel] = r
	}
	assert.True(t, byChannel["telegram"].Skipped)
	assert.False(t, byChannel["telegram"].Success)
	assert.Empty(t, byChannel["telegram"].Error)
}

func TestDispatchSkipDoesNotHideRealDelivery(t *testing.T) {
	skipped := &stubSender{name: "telegram", err: ErrSkipped}
	inApp := &stubSender{name: "in_app"}
	d := NewDispatcher(time.Second, skipped, inApp)

	result := d.Dispatch(context.Background(), testMessage())

	assert.True(t, result.Delivered())
}

func TestDispatchTimeoutCountsAsFailure(t *testing.T) {
	slow := &stubSender{name: "telegram", delay: 200 * time.Millisecond}
	fast := &stubSender{name: "in_app"}
	d := NewDispatcher(20*time.Millisecond, slow, fast)

	result := d.Dispatch(context.Background(), testMessage())

	byChannel := map[string]ChannelResult{}
	for _, r := range result.Results {
		byChannel[r.Channel] = r
	}
	assert.False(t, byChannel["telegram"].Success)
	assert.NotEmpty(t, byChannel["telegram"].Error)
	assert.True(t, byChannel["in_app"].Success)
	assert.True(t, result.Delivered())
}

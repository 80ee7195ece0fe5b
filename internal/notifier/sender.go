package notifier

import (
	"context"
	"errors"

	"github.com/adilzhan17/Reminder_Manager/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrSkipped signals that a channel has no route to the user (e.g. no
// Telegram chat linked). A skip is neither a success nor a failure: it must
// not mark the fire point delivered, and it is not worth retrying either.
var ErrSkipped = errors.New("channel skipped: no route to user")

// Message is one notification to be delivered to a single user over every
// configured channel.
type Message struct {
	User       models.User
	ReminderID primitive.ObjectID
	// Type is the fire-point key, e.g. "reminder_time" or "pre_due_3".
	Type  string
	Title string
	Body  string
}

// Sender delivers a message over one channel. Implementations must respect
// ctx cancellation where the underlying transport allows it; the dispatcher
// enforces a hard timeout either way.
type Sender interface {
	Name() string
	Send(ctx context.Context, msg *Message) error
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a user account in the Reminder Manager system.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Username       string             `bson:"username"`
	Email          string             `bson:"email"`
	HashedPassword string             `json:"hashed_password"`
	Role           string             `bson:"role" json:"role"`

	// TelegramChatID enables the Telegram channel for this user when non-zero.
	TelegramChatID int64 `bson:"telegram_chat_id,omitempty" json:"telegram_chat_id,omitempty"`

	IsVerified  bool   `bson:"is_verified" json:"is_verified"`
	VerifyToken string `bson:"verify_token,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type PublicUser struct {
	ID       primitive.ObjectID `json:"id"`
	Username string             `json:"username"`
	Email    string             `json:"email"`
}

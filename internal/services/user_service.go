package services

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/adilzhan17/Reminder_Manager/internal/models"
	"github.com/adilzhan17/Reminder_Manager/internal/repository"
	"github.com/adilzhan17/Reminder_Manager/pkg/email"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserService encapsulates the business logic for user operations.
type UserService struct {
	repo *repository.UserRepository
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

// RegisterUser registers a new user after hashing their password.
func (s *UserService) RegisterUser(ctx context.Context, user *models.User) (*models.User, error) {
	logrus.Info("Registering new user")

	var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	if user.Email == "" || user.Username == "" || user.HashedPassword == "" {
		logrus.Warn("Missing required fields during registration")
		return nil, fmt.Errorf("missing required user fields")
	}

	if !emailRegex.MatchString(user.Email) {
		logrus.WithField("email", user.Email).Warn("Invalid email format during registration")
		return nil, fmt.Errorf("invalid email format")
	}

	// Check if the email is already registered
	existingUser, _ := s.repo.GetUserByEmail(ctx, user.Email)
	if existingUser != nil {
		logrus.WithField("email", user.Email).Warn("Email already in use")
		return nil, fmt.Errorf("email already in use")
	}

	// Hash the user's password.
	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(user.HashedPassword), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user.HashedPassword = string(hashedPwd)
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	if user.Role == "" {
		user.Role = "user"
	}

	verificationToken := uuid.NewString()
	user.VerifyToken = verificationToken
	user.IsVerified = false

	// Create the user in the repository.
	createdUser, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		logrus.WithError(err).Error("User registration failed")
		return nil, fmt.Errorf("failed to register user: %v", err)
	}

	verificationLink := fmt.Sprintf("http://localhost:8080/users/verify?token=%s", verificationToken)
	go func() {
		err := email.SendEmail(createdUser.Email, "Verify your email",
			fmt.Sprintf("Welcome to Reminder Manager! Please verify your email:\n%s", verificationLink))
		if err != nil {
			logrus.WithError(err).Warn("Failed to send verification email")
		}
	}()

	return createdUser, nil
}

// VerifyEmail marks a user as verified using the emailed token.
func (s *UserService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.repo.GetUserByVerifyToken(ctx, token)
	if err != nil {
		return fmt.Errorf("invalid verification token")
	}

	user.IsVerified = true
	user.VerifyToken = ""
	if _, err := s.repo.UpdateUser(ctx, user.ID, user); err != nil {
		return fmt.Errorf("failed to verify user: %v", err)
	}

	logrus.WithField("userID", user.ID.Hex()).Info("User email verified")
	return nil
}

// AuthenticateUser validates credentials and returns the user on success.
func (s *UserService) AuthenticateUser(ctx context.Context, emailAddr, password string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		logrus.WithField("email", emailAddr).Warn("Invalid password attempt")
		return nil, fmt.Errorf("invalid email or password")
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// UpdateUser updates profile fields, including the linked Telegram chat used
// by the messaging channel.
func (s *UserService) UpdateUser(ctx context.Context, id primitive.ObjectID, updated *models.User) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user not found: %v", err)
	}

	if updated.Username != "" {
		user.Username = updated.Username
	}
	if updated.TelegramChatID != 0 {
		user.TelegramChatID = updated.TelegramChatID
	}

	return s.repo.UpdateUser(ctx, id, user)
}

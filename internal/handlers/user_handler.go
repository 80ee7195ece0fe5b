package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/adilzhan17/Reminder_Manager/internal/config"
	"github.com/adilzhan17/Reminder_Manager/internal/models"
	"github.com/adilzhan17/Reminder_Manager/internal/services"
	jwtutil "github.com/adilzhan17/Reminder_Manager/pkg/jwt"
	"github.com/adilzhan17/Reminder_Manager/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserHandler handles HTTP requests related to user accounts.
type UserHandler struct {
	Service *services.UserService
	Config  *config.Config
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(service *services.UserService, cfg *config.Config) *UserHandler {
	return &UserHandler{
		Service: service,
		Config:  cfg,
	}
}

// RegisterUserHandler registers a new user account.
func (h *UserHandler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	user := &models.User{
		Username:       payload.Username,
		Email:          payload.Email,
		HashedPassword: payload.Password,
	}

	created, err := h.Service.RegisterUser(r.Context(), user)
	if err != nil {
		logrus.WithError(err).Warn("User registration failed")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.PublicUser{
		ID:       created.ID,
		Username: created.Username,
		Email:    created.Email,
	})
}

// LoginUserHandler authenticates a user and returns a JWT.
func (h *UserHandler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	user, err := h.Service.AuthenticateUser(r.Context(), payload.Email, payload.Password)
	if err != nil {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	token, err := jwtutil.GenerateToken(user.ID.Hex(), user.Email, user.Role, h.Config.JWTSecret, h.Config.TokenExpiry)
	if err != nil {
		logrus.WithError(err).Error("Failed to generate token")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"token": token})
}

// VerifyEmailHandler confirms a user's email using the emailed token.
func (h *UserHandler) VerifyEmailHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing verification token", http.StatusBadRequest)
		return
	}

	if err := h.Service.VerifyEmail(r.Context(), token); err != nil {
		http.Error(w, "Invalid verification token", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Email verified successfully"})
}

// GetUserHandler returns a user's public profile.
func (h *UserHandler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	user, err := h.Service.GetUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.PublicUser{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

// UpdateUserHandler updates the logged-in user's profile (username, Telegram
// chat link).
func (h *UserHandler) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	targetID := mux.Vars(r)["id"]
	if targetID != claims.UserID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	userID, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	var updated models.User
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	user, err := h.Service.UpdateUser(r.Context(), userID, &updated)
	if err != nil {
		logrus.WithError(err).Error("Failed to update user")
		http.Error(w, "Failed to update user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.PublicUser{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/adilzhan17/Reminder_Manager/internal/models"
	"github.com/adilzhan17/Reminder_Manager/internal/services"
	"github.com/adilzhan17/Reminder_Manager/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReminderHandler handles HTTP requests related to reminders.
type ReminderHandler struct {
	Service         *services.ReminderService
	ActivityService *services.ActivityService
}

// NewReminderHandler creates a new instance of ReminderHandler.
func NewReminderHandler(reminderService *services.ReminderService, activityService *services.ActivityService) *ReminderHandler {
	return &ReminderHandler{
		Service:         reminderService,
		ActivityService: activityService,
	}
}

// CreateReminderHandler handles the creation of a new reminder.
func (h *ReminderHandler) CreateReminderHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		logrus.Warn("Unauthorized access attempt during reminder creation")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var reminder models.Reminder
	if err := json.NewDecoder(r.Body).Decode(&reminder); err != nil {
		logrus.WithError(err).Warn("Invalid request payload during reminder creation")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		logrus.WithError(err).Error("Failed to convert user ID")
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return
	}
	reminder.UserID = userID
	reminder.IsCompleted = false
	reminder.NotificationsSent = nil

	if !reminder.DueDate.IsZero() && reminder.DueDate.Before(time.Now()) {
		logrus.Warn("Attempt to set a past due date for reminder")
		http.Error(w, "Due date cannot be in the past", http.StatusBadRequest)
		return
	}

	created, err := h.Service.CreateReminder(r.Context(), &reminder)
	if err != nil {
		logrus.WithError(err).Error("Failed to create reminder")
		http.Error(w, "Failed to create reminder", http.StatusInternalServerError)
		return
	}

	// Log activity
	_ = h.ActivityService.LogActivity(r.Context(), userID, "reminder_created", created.ID, fmt.Sprintf("Created reminder: %s", created.Title))

	logrus.WithFields(logrus.Fields{
		"userID":     claims.UserID,
		"reminderID": created.ID.Hex(),
	}).Info("Reminder successfully created")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(created)
}

// GetReminderHandler handles fetching a single reminder by its ID.
func (h *ReminderHandler) GetReminderHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	reminderID := vars["id"]

	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	reminder, err := h.Service.GetReminder(r.Context(), reminderID)
	if err != nil {
		http.Error(w, "Reminder not found", http.StatusNotFound)
		return
	}

	if reminder.UserID.Hex() != claims.UserID && !isCollaborator(reminder, claims.UserID) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reminder)
}

// GetRemindersHandler returns all reminders of the logged-in user.
func (h *ReminderHandler) GetRemindersHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return
	}

	reminders, err := h.Service.GetReminders(r.Context(), userID)
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch reminders")
		http.Error(w, "Failed to fetch reminders", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reminders)
}

// UpdateReminderHandler handles reminder edits.
func (h *ReminderHandler) UpdateReminderHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	reminderID := vars["id"]

	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	existing, err := h.Service.GetReminder(r.Context(), reminderID)
	if err != nil {
		http.Error(w, "Reminder not found", http.StatusNotFound)
		return
	}
	if existing.UserID.Hex() != claims.UserID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var updated models.Reminder
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	reminder, err := h.Service.UpdateReminder(r.Context(), reminderID, &updated)
	if err != nil {
		logrus.WithError(err).Error("Failed to update reminder")
		http.Error(w, "Failed to update reminder", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reminder)
}

// CompleteReminderHandler marks the current occurrence as completed.
func (h *ReminderHandler) CompleteReminderHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	reminderID := vars["id"]

	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	existing, err := h.Service.GetReminder(r.Context(), reminderID)
	if err != nil {
		http.Error(w, "Reminder not found", http.StatusNotFound)
		return
	}
	if existing.UserID.Hex() != claims.UserID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	reminder, err := h.Service.CompleteReminder(r.Context(), reminderID)
	if err != nil {
		http.Error(w, "Failed to complete reminder", http.StatusInternalServerError)
		return
	}

	_ = h.ActivityService.LogActivity(r.Context(), existing.UserID, "reminder_completed", existing.ID, fmt.Sprintf("Completed reminder: %s", existing.Title))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reminder)
}

// AddCollaboratorHandler shares a reminder with another user as a notify target.
func (h *ReminderHandler) AddCollaboratorHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	reminderID := vars["id"]

	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	existing, err := h.Service.GetReminder(r.Context(), reminderID)
	if err != nil {
		http.Error(w, "Reminder not found", http.StatusNotFound)
		return
	}
	if existing.UserID.Hex() != claims.UserID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var payload struct {
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	collaboratorID, err := primitive.ObjectIDFromHex(payload.UserID)
	if err != nil {
		http.Error(w, "Invalid collaborator ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.AddCollaborator(r.Context(), reminderID, collaboratorID); err != nil {
		logrus.WithError(err).Error("Failed to add collaborator")
		http.Error(w, "Failed to add collaborator", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteReminderHandler removes a reminder.
func (h *ReminderHandler) DeleteReminderHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	reminderID := vars["id"]

	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	existing, err := h.Service.GetReminder(r.Context(), reminderID)
	if err != nil {
		http.Error(w, "Reminder not found", http.StatusNotFound)
		return
	}
	if existing.UserID.Hex() != claims.UserID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if err := h.Service.DeleteReminder(r.Context(), reminderID); err != nil {
		http.Error(w, "Failed to delete reminder", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AdminGetFlaggedRemindersHandler lists reminders awaiting manual review.
func (h *ReminderHandler) AdminGetFlaggedRemindersHandler(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.Service.GetFlaggedReminders(r.Context())
	if err != nil {
		http.Error(w, "Failed to fetch flagged reminders", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reminders)
}

func isCollaborator(reminder *models.Reminder, userID string) bool {
	for _, id := range reminder.Collaborators {
		if id.Hex() == userID {
			return true
		}
	}
	return false
}

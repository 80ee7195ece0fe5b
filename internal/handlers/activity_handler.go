package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/adilzhan17/Reminder_Manager/internal/services"
	"github.com/adilzhan17/Reminder_Manager/pkg/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityHandler exposes the user's recent activity feed.
type ActivityHandler struct {
	Service *services.ActivityService
}

func NewActivityHandler(service *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{Service: service}
}

// GetRecentActivitiesHandler returns the most recent actions of the user.
func (h *ActivityHandler) GetRecentActivitiesHandler(w http.ResponseWriter, r *http.Request) {
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

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	activities, err := h.Service.GetRecentActivities(r.Context(), userID, limit)
	if err != nil {
		http.Error(w, "Failed to fetch activities", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(activities)
}

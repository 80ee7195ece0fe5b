package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/adilzhan17/Reminder_Manager/internal/jobs"
	"github.com/sirupsen/logrus"
)

// JobHandler exposes a manual trigger for the reminder worker, mostly for
// operations and testing. The cron scheduler invokes the same cycle.
type JobHandler struct {
	Worker *jobs.ReminderWorker
}

func NewJobHandler(worker *jobs.ReminderWorker) *JobHandler {
	return &JobHandler{Worker: worker}
}

// RunReminderCycleHandler runs one worker cycle on demand.
func (h *JobHandler) RunReminderCycleHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := h.Worker.RunCycle(r.Context()); err != nil {
		logrus.WithError(err).Error("Manual reminder cycle failed")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   err.Error(),
			"message": "Reminder cycle failed",
		})
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":   true,
		"message":   "Reminder cycle completed",
		"timestamp": time.Now().UTC(),
	})
}

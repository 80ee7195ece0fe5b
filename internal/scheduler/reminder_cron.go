package cron

import (
	"context"

	"github.com/adilzhan17/Reminder_Manager/internal/jobs"
	"github.com/adilzhan17/Reminder_Manager/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func StartReminderCronJobs(worker *jobs.ReminderWorker, notificationService *services.NotificationService) {
	c := cron.New()

	// Evaluate reminders every minute (matches the due-window tolerance)
	c.AddFunc("* * * * *", func() {
		err := worker.RunCycle(context.Background())
		if err != nil {
			logrus.WithError(err).Error("Reminder cycle failed")
		}
	})

	// Purge expired in-app notifications daily
	c.AddFunc("0 0 * * *", func() {
		err := notificationService.DeleteExpiredNotifications(context.Background())
		if err != nil {
			logrus.WithError(err).Error("DeleteExpiredNotifications failed")
		}
	})

	c.Start()
}

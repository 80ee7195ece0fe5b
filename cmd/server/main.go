package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/adilzhan17/Reminder_Manager/internal/config"
	"github.com/adilzhan17/Reminder_Manager/internal/database"
	"github.com/adilzhan17/Reminder_Manager/internal/handlers"
	"github.com/adilzhan17/Reminder_Manager/internal/jobs"
	"github.com/adilzhan17/Reminder_Manager/internal/notifier"
	"github.com/adilzhan17/Reminder_Manager/internal/repository"
	cron "github.com/adilzhan17/Reminder_Manager/internal/scheduler"
	"github.com/adilzhan17/Reminder_Manager/internal/services"
	"github.com/adilzhan17/Reminder_Manager/pkg/logger"
	"github.com/adilzhan17/Reminder_Manager/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	reminderRepo := repository.NewReminderRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// --- Services ---
	userService := services.NewUserService(userRepo)
	reminderService := services.NewReminderService(reminderRepo, userRepo)
	notificationService := services.NewNotificationService(notificationRepo)
	activityService := services.NewActivityService(activityRepo)

	// --- Notification channels ---
	senders := []notifier.Sender{
		notifier.NewInAppSender(notificationRepo),
		notifier.NewEmailSender(),
	}
	if cfg.TelegramToken != "" {
		telegramSender, err := notifier.NewTelegramSender(cfg.TelegramToken)
		if err != nil {
			logrus.WithError(err).Warn("Telegram channel disabled")
		} else {
			senders = append(senders, telegramSender)
		}
	}
	dispatcher := notifier.NewDispatcher(cfg.DispatchTimeout, senders...)

	// --- Reminder worker ---
	worker := jobs.NewReminderWorker(reminderRepo, userRepo, dispatcher, cfg.DueTolerance, cfg.StaleAfter)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	reminderHandler := handlers.NewReminderHandler(reminderService, activityService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	activityHandler := handlers.NewActivityHandler(activityService)
	jobHandler := handlers.NewJobHandler(worker)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Reminder routes
	protectedRoutes := router.PathPrefix("/reminders").Subrouter()
	protectedRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedRoutes.HandleFunc("", reminderHandler.CreateReminderHandler).Methods("POST")
	protectedRoutes.HandleFunc("", reminderHandler.GetRemindersHandler).Methods("GET")
	protectedRoutes.HandleFunc("/{id}", reminderHandler.GetReminderHandler).Methods("GET")
	protectedRoutes.HandleFunc("/{id}", reminderHandler.UpdateReminderHandler).Methods("PUT")
	protectedRoutes.HandleFunc("/{id}", reminderHandler.DeleteReminderHandler).Methods("DELETE")
	protectedRoutes.HandleFunc("/{id}/complete", reminderHandler.CompleteReminderHandler).Methods("POST")
	protectedRoutes.HandleFunc("/{id}/collaborators", reminderHandler.AddCollaboratorHandler).Methods("POST")

	// Register User routes
	router.HandleFunc("/users/register", userHandler.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/users/login", userHandler.LoginUserHandler).Methods("POST")
	router.HandleFunc("/users/verify", userHandler.VerifyEmailHandler).Methods("GET")

	// Protected user routes (only authenticated users can access)
	protectedUserRoutes := router.PathPrefix("/users").Subrouter()
	protectedUserRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedUserRoutes.HandleFunc("/{id}", userHandler.GetUserHandler).Methods("GET")
	protectedUserRoutes.HandleFunc("/{id}", userHandler.UpdateUserHandler).Methods("PATCH")

	// Notification routes
	protectedNotifRoutes := router.PathPrefix("/notifications").Subrouter()
	protectedNotifRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedNotifRoutes.HandleFunc("", notificationHandler.GetNotificationsHandler).Methods("GET")
	protectedNotifRoutes.HandleFunc("/{id}/read", notificationHandler.MarkNotificationReadHandler).Methods("POST")
	protectedNotifRoutes.HandleFunc("/{id}", notificationHandler.DeleteNotificationHandler).Methods("DELETE")

	// Activity feed
	protectedActivityRoutes := router.PathPrefix("/activity").Subrouter()
	protectedActivityRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedActivityRoutes.HandleFunc("", activityHandler.GetRecentActivitiesHandler).Methods("GET")

	// Manual worker trigger & admin routes
	adminRoutes := router.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	adminRoutes.Use(middleware.RequireRole("admin"))
	adminRoutes.HandleFunc("/jobs/reminders/run", jobHandler.RunReminderCycleHandler).Methods("POST")
	adminRoutes.HandleFunc("/reminders/flagged", reminderHandler.AdminGetFlaggedRemindersHandler).Methods("GET")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Start the background reminder cycle
	cron.StartReminderCronJobs(worker, notificationService)

	// Start the HTTP server
	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // adjust to frontend origin
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}

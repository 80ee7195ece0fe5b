package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all runtime configuration for the service.
type Config struct {
	Port        string
	MongoURI    string
	DBName      string
	JWTSecret   string
	TokenExpiry time.Duration

	// TelegramToken enables the Telegram notification channel when set.
	TelegramToken string

	// DueTolerance is the window around an instant-based trigger within
	// which it is considered due. The worker runs every minute, so the
	// default matches a one-minute cycle.
	DueTolerance time.Duration

	// StaleAfter is how far in the past a fire point may be before it is
	// abandoned instead of dispatched.
	StaleAfter time.Duration

	// DispatchTimeout bounds every outbound channel call.
	DispatchTimeout time.Duration
}

// LoadConfig reads configuration from the environment (.env file if present).
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, relying on environment variables")
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:          getEnv("DB_NAME", "reminder_manager"),
		JWTSecret:       getEnv("JWT_SECRET", "secret"),
		TokenExpiry:     getDuration("TOKEN_EXPIRY_HOURS", 72) * time.Hour,
		TelegramToken:   getEnv("TELEGRAM_TOKEN", ""),
		DueTolerance:    getDuration("DUE_TOLERANCE_SECONDS", 60) * time.Second,
		StaleAfter:      getDuration("STALE_AFTER_HOURS", 24) * time.Hour,
		DispatchTimeout: getDuration("DISPATCH_TIMEOUT_SECONDS", 10) * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback int64) time.Duration {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil && n > 0 {
			return time.Duration(n)
		}
		logrus.WithField("key", key).Warn("Invalid duration value, using default")
	}
	return time.Duration(fallback)
}

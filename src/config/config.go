package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// apiKeyPlaceholder is the value shipped in .env.example; starting with it
// still configured must abort.
const apiKeyPlaceholder = "your_api_key_here"

// AppConfig holds all configuration for the application.
// The values are loaded from environment variables.
type AppConfig struct {
	// Core settings
	Port         string
	DatabasePath string
	LogLevel     string

	// Monday.com API settings
	MondayAPIURL      string
	MondayAPIKey      string
	MondayBoardID     string
	MondayHTTPTimeout time.Duration

	// Sync settings
	SyncWindowDays int
}

// Cfg is a global instance of the AppConfig.
var Cfg *AppConfig

// LoadConfig loads configuration from environment variables or a .env file.
// Missing or placeholder credentials are fatal: the service must not come up
// able to serve the sync trigger without a working Monday token and board.
func LoadConfig() {
	// 1. Try loading from the current directory (standard behavior)
	errEnv := godotenv.Load()

	// 2. If not found, try loading from the parent directory (common when running from /backend)
	if errEnv != nil {
		errEnv = godotenv.Load("../.env")
	}

	if errEnv != nil {
		if os.IsNotExist(errEnv) {
			log.Println("Info: No .env file found in current or parent directory. Relying on OS environment variables (expected in production).")
		} else {
			log.Printf("Warning: Error loading .env file: %v. Relying on OS environment variables.", errEnv)
		}
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	mondayAPIKey := getRequiredEnv("MONDAY_API_KEY")
	if mondayAPIKey == apiKeyPlaceholder {
		log.Fatalf("FATAL: MONDAY_API_KEY is still the placeholder value. Application cannot start securely.")
	}
	mondayBoardID := getRequiredEnv("MONDAY_BOARD_ID")

	Cfg = &AppConfig{
		// Core
		Port:         getEnv("PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "./comprasync.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		// Monday.com
		MondayAPIURL:      getEnv("MONDAY_API_URL", "https://api.monday.com/v2"),
		MondayAPIKey:      mondayAPIKey,
		MondayBoardID:     mondayBoardID,
		MondayHTTPTimeout: getEnvAsDuration("MONDAY_HTTP_TIMEOUT", 30*time.Second),

		// Sync
		SyncWindowDays: getEnvAsInt("SYNC_WINDOW_DAYS", 60),
	}

	if Cfg.SyncWindowDays <= 0 {
		log.Fatalf("FATAL: SYNC_WINDOW_DAYS must be a positive number of days, got %d.", Cfg.SyncWindowDays)
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s, BoardID=%s, WindowDays=%d",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath, Cfg.MondayBoardID, Cfg.SyncWindowDays)
}

// getEnv retrieves an environment variable or returns a fallback value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

// getRequiredEnv retrieves an environment variable or terminates the application if not set.
func getRequiredEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		log.Fatalf("FATAL: Required environment variable %s is not set or is empty. Application cannot start securely.", key)
	}
	return value
}

// getEnvAsInt retrieves an environment variable as an integer or returns a fallback.
func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

// getEnvAsDuration retrieves an environment variable as a time.Duration or returns a fallback.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}

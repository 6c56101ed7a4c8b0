package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the runtime configuration, read from environment variables
// (populated from a .env file in development).
type Config struct {
	// BotToken is the Telegram Bot API token. Required.
	BotToken string

	// SuperAdminID is the Telegram user ID of the single privileged
	// identity allowed to run administrative commands. Required.
	SuperAdminID int64

	// PublicURL is the externally reachable base URL used for webhook
	// registration. Required.
	PublicURL string

	// WebhookSecret is the shared secret Telegram echoes back in the
	// X-Telegram-Bot-Api-Secret-Token header. Optional; when empty the
	// header is not enforced.
	WebhookSecret string

	// Port the HTTP server listens on. Defaults to 8080.
	Port string

	// DataDir is the root directory for per-sender ledger folders.
	// Defaults to "data".
	DataDir string

	// AllowedUsersFile is the path of the persisted allow list.
	// Defaults to "allowed_users.txt".
	AllowedUsersFile string

	// ActivityLogFile is the path of the append-only activity log.
	// Defaults to "user_activity.log".
	ActivityLogFile string
}

// Load reads the configuration from the environment and validates the
// required values.
func Load() (*Config, error) {
	cfg := &Config{
		BotToken:         os.Getenv("BOT_TOKEN"),
		PublicURL:        os.Getenv("PUBLIC_URL"),
		WebhookSecret:    os.Getenv("WEBHOOK_SECRET"),
		Port:             getEnvDefault("PORT", "8080"),
		DataDir:          getEnvDefault("DATA_DIR", "data"),
		AllowedUsersFile: getEnvDefault("ALLOWED_USERS_FILE", "allowed_users.txt"),
		ActivityLogFile:  getEnvDefault("ACTIVITY_LOG_FILE", "user_activity.log"),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.PublicURL == "" {
		return nil, fmt.Errorf("PUBLIC_URL is required")
	}

	rawAdmin := os.Getenv("SUPER_ADMIN_ID")
	if rawAdmin == "" {
		return nil, fmt.Errorf("SUPER_ADMIN_ID is required")
	}
	adminID, err := strconv.ParseInt(rawAdmin, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("SUPER_ADMIN_ID must be an integer: %w", err)
	}
	cfg.SuperAdminID = adminID

	return cfg, nil
}

// getEnvDefault returns the value of the environment variable or the
// fallback when unset or empty.
func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

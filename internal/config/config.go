package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Health/ops HTTP server
	Port string

	// Telegram
	BotToken     string
	PollTimeout  time.Duration
	AllowedUsers []string // empty list allows everyone (dev mode)

	// Database
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets sync (worker)
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// Session state
	NameCaptureTTL time.Duration
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "3000"),

		BotToken:     getEnv("TELEGRAM_BOT_TOKEN", os.Getenv("BOT_TOKEN")),
		PollTimeout:  getEnvDuration("TELEGRAM_POLL_TIMEOUT", 30*time.Second),
		AllowedUsers: splitList(getEnv("ALLOWED_USER_IDS", "")),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/gastos.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "gastos"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "sync_entries"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Gastos"),

		NameCaptureTTL: getEnvDuration("NAME_CAPTURE_TTL", 10*time.Minute),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.BotToken == "" {
		errs = append(errs, "TELEGRAM_BOT_TOKEN (or BOT_TOKEN) must be set")
	}

	if c.SQLiteDBPath == "" {
		errs = append(errs, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	for _, id := range c.AllowedUsers {
		if _, err := strconv.ParseInt(id, 10, 64); err != nil {
			errs = append(errs, fmt.Sprintf("invalid user id '%s' in ALLOWED_USER_IDS: must be numeric", id))
		}
	}

	if c.PollTimeout < time.Second || c.PollTimeout > 5*time.Minute {
		errs = append(errs, fmt.Sprintf("invalid poll timeout %v: must be between 1s and 5m", c.PollTimeout))
	}

	if c.NameCaptureTTL < time.Minute {
		errs = append(errs, fmt.Sprintf("invalid name capture TTL %v: must be at least 1 minute", c.NameCaptureTTL))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}

// UserAllowed reports whether a Telegram user id passes the whitelist.
// An empty whitelist allows everyone (dev mode).
func (c *Config) UserAllowed(userID int64) bool {
	if len(c.AllowedUsers) == 0 {
		return true
	}
	id := strconv.FormatInt(userID, 10)
	for _, allowed := range c.AllowedUsers {
		if allowed == id {
			return true
		}
	}
	return false
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

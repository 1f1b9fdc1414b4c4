package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	DatabaseDriver string
	DatabaseURL    string
	Port           string
	StaticDir      string
	DashboardURL   string
	LogLevel       string
	Environment    string

	TelegramToken      string // empty disables the Telegram bot
	TelegramWebhookURL string // empty means long polling
	TelegramBotLink    string

	WhatsAppAPIURL        string
	WhatsAppToken         string // empty disables WhatsApp sending
	WhatsAppPhoneNumberID string
	WhatsAppVerifyToken   string
	WhatsAppBotLink       string

	ReminderDefaultRecipient string
	ReminderLeadMinutes      int
	ReminderSendTimeout      time.Duration
	StrictTimeParsing        bool
	Location                 *time.Location
}

// TelegramEnabled reports whether a bot token was configured.
func (c *AppConfig) TelegramEnabled() bool {
	return c.TelegramToken != ""
}

// WhatsAppEnabled reports whether the Graph API credentials were configured.
func (c *AppConfig) WhatsAppEnabled() bool {
	return c.WhatsAppToken != "" && c.WhatsAppPhoneNumberID != ""
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.DatabaseDriver = strings.ToLower(getEnv("DATABASE_DRIVER", DriverSQLite))
	if cfg.DatabaseDriver != DriverSQLite && cfg.DatabaseDriver != DriverPostgres {
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q (want %s or %s)", cfg.DatabaseDriver, DriverSQLite, DriverPostgres)
	}
	cfg.DatabaseURL = getEnv("DATABASE_URL", "campus_events.db")
	if cfg.DatabaseDriver == DriverPostgres && os.Getenv("DATABASE_URL") == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.Port = getEnv("PORT", "5000")
	if _, err = strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	cfg.StaticDir = os.Getenv("STATIC_DIR")
	cfg.DashboardURL = getEnv("DASHBOARD_URL", "http://localhost:"+cfg.Port)

	cfg.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", "info"))
	cfg.Environment = strings.ToLower(getEnv("ENVIRONMENT", "development"))

	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.TelegramWebhookURL = os.Getenv("TELEGRAM_WEBHOOK_URL")
	cfg.TelegramBotLink = getEnv("TELEGRAM_BOT_LINK", "https://t.me/EVENT254_BOT")

	cfg.WhatsAppAPIURL = strings.TrimRight(getEnv("WHATSAPP_API_URL", "https://graph.facebook.com/v18.0"), "/")
	cfg.WhatsAppToken = os.Getenv("WHATSAPP_TOKEN")
	cfg.WhatsAppPhoneNumberID = os.Getenv("WHATSAPP_PHONE_NUMBER_ID")
	cfg.WhatsAppVerifyToken = os.Getenv("WHATSAPP_VERIFY_TOKEN")
	cfg.WhatsAppBotLink = getEnv("WHATSAPP_BOT_LINK", "https://wa.me/1234567890")

	cfg.ReminderDefaultRecipient = os.Getenv("REMINDER_DEFAULT_RECIPIENT")

	cfg.ReminderLeadMinutes, err = strconv.Atoi(getEnv("REMINDER_LEAD_MINUTES", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid REMINDER_LEAD_MINUTES: %w", err)
	}
	if cfg.ReminderLeadMinutes <= 0 {
		return nil, fmt.Errorf("REMINDER_LEAD_MINUTES must be positive, got %d", cfg.ReminderLeadMinutes)
	}

	cfg.ReminderSendTimeout, err = time.ParseDuration(getEnv("REMINDER_SEND_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REMINDER_SEND_TIMEOUT: %w", err)
	}
	if cfg.ReminderSendTimeout <= 0 {
		return nil, fmt.Errorf("REMINDER_SEND_TIMEOUT must be positive, got %s", cfg.ReminderSendTimeout)
	}

	if v := os.Getenv("STRICT_TIME_PARSING"); v != "" {
		cfg.StrictTimeParsing, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid STRICT_TIME_PARSING: %w", err)
		}
	}

	cfg.Location = time.Local // Events are typed in the server's local time by default
	if tz := os.Getenv("TIMEZONE"); tz != "" {
		cfg.Location, err = time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Package config loads the service configuration once at startup from the
// environment (optionally seeded by a .env file).
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	NotifySMTP  = "smtp"
	NotifyQueue = "queue"
	NotifyNone  = "none"
)

// Config holds everything the pipeline needs. It is built by Load and passed
// by pointer into constructors.
type Config struct {
	Env  string
	Port int

	// Database
	DatabaseURL       string
	DBMaxOpenConns    int
	DBTxTimeout       time.Duration
	MigrationsEnabled bool

	// HTTP
	AllowedOrigins     []string
	RateLimitPerMinute int

	// Pipeline
	HoneypotEnabled  bool
	StrictNameLength bool
	Location         *time.Location

	// Notification
	SendEmails        bool
	NotifyTransport   string
	NotificationEmail string
	FromEmail         string
	FromName          string
	MailHost          string
	MailPort          int
	MailUser          string
	MailPass          string
	NotifyTimeout     time.Duration

	// RabbitMQ
	AMQPURL string

	// Redis
	RedisURL    string
	DedupWindow time.Duration
}

// Load reads the API configuration from environment variables.
func Load() (*Config, error) {
	cfg, err := parse()
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	return cfg, nil
}

// LoadNotifier reads the configuration for the queue consumer, which needs
// RabbitMQ and SMTP but no database.
func LoadNotifier() (*Config, error) {
	cfg, err := parse()
	if err != nil {
		return nil, err
	}
	if cfg.AMQPURL == "" {
		return nil, errors.New("AMQP_URL is required")
	}
	return cfg, nil
}

func parse() (*Config, error) {
	cfg := &Config{
		Env:                envOrDefault("APP_ENV", "production"),
		Port:               envOrDefaultInt("PORT", 8080),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		DBMaxOpenConns:     envOrDefaultInt("DB_MAX_OPEN_CONNS", 10),
		DBTxTimeout:        envOrDefaultDuration("DB_TX_TIMEOUT", 5*time.Second),
		MigrationsEnabled:  envOrDefaultBool("MIGRATIONS_ENABLED", true),
		AllowedOrigins:     splitList(envOrDefault("ALLOWED_ORIGINS", "*")),
		RateLimitPerMinute: envOrDefaultInt("RATE_LIMIT_PER_MINUTE", 10),
		HoneypotEnabled:    envOrDefaultBool("HONEYPOT_ENABLED", true),
		StrictNameLength:   envOrDefaultBool("STRICT_NAME_LENGTH", false),
		SendEmails:         envOrDefaultBool("SEND_EMAILS", true),
		NotifyTransport:    strings.ToLower(envOrDefault("NOTIFY_TRANSPORT", NotifySMTP)),
		NotificationEmail:  envOrDefault("NOTIFICATION_EMAIL", "contact@clicom.ch"),
		FromEmail:          envOrDefault("FROM_EMAIL", "no-reply@clicom.ch"),
		FromName:           envOrDefault("FROM_NAME", "CLICOM"),
		MailHost:           os.Getenv("MAIL_HOST"),
		MailPort:           envOrDefaultInt("MAIL_PORT", 587),
		MailUser:           os.Getenv("MAIL_USER"),
		MailPass:           os.Getenv("MAIL_PASS"),
		NotifyTimeout:      envOrDefaultDuration("NOTIFY_TIMEOUT", 5*time.Second),
		AMQPURL:            os.Getenv("AMQP_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		DedupWindow:        envOrDefaultDuration("DEDUP_WINDOW", 0),
	}

	loc, err := time.LoadLocation(envOrDefault("TIMEZONE", "Europe/Zurich"))
	if err != nil {
		return nil, fmt.Errorf("load TIMEZONE: %w", err)
	}
	cfg.Location = loc

	switch cfg.NotifyTransport {
	case NotifySMTP, NotifyNone:
	case NotifyQueue:
		if cfg.AMQPURL == "" {
			return nil, errors.New("AMQP_URL is required when NOTIFY_TRANSPORT=queue")
		}
	default:
		return nil, fmt.Errorf("unknown NOTIFY_TRANSPORT %q", cfg.NotifyTransport)
	}

	return cfg, nil
}

// NotificationsEnabled reports whether the pipeline should build a notifier.
func (c *Config) NotificationsEnabled() bool {
	return c.SendEmails && c.NotifyTransport != NotifyNone
}

// DedupEnabled reports whether the Redis duplicate-submission guard is on.
func (c *Config) DedupEnabled() bool {
	return c.RedisURL != "" && c.DedupWindow > 0
}

// NewLogger returns a JSON logger, or a text logger in development.
func (c *Config) NewLogger() *slog.Logger {
	if c.Env == "development" {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envOrDefaultBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envOrDefaultDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	GroupingPerCall   = "per_call"
	GroupingPerTarget = "per_target"
)

// Config keeps runtime settings for the service.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL" envDefault:"compliance_planner.db"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text"`

	// LookaheadCount caps the occurrences materialized per target.
	LookaheadCount int    `env:"LOOKAHEAD_COUNT" envDefault:"3"`
	Grouping       string `env:"GROUPING" envDefault:"per_call"`

	// ReminderAt (HH:MM) runs the digest daily and takes precedence over the interval.
	ReminderAt            string `env:"REMINDER_AT"`
	ReminderIntervalHours int    `env:"REMINDER_INTERVAL_HOURS" envDefault:"24"`
	ReminderHorizonDays   int    `env:"REMINDER_HORIZON_DAYS" envDefault:"14"`

	TelegramToken  string `env:"TELEGRAM_TOKEN"`
	TelegramChatID int64  `env:"TELEGRAM_CHAT_ID"`
}

// Load reads configuration from the environment, after loading a .env file
// when one exists in the working directory.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return parse()
}

func parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	cfg.TelegramToken = strings.TrimSpace(cfg.TelegramToken)
	cfg.Grouping = strings.ToLower(strings.TrimSpace(cfg.Grouping))
	cfg.ReminderAt = strings.TrimSpace(cfg.ReminderAt)

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "compliance_planner.db"
	}
	if cfg.LookaheadCount <= 0 {
		return cfg, fmt.Errorf("LOOKAHEAD_COUNT must be positive, got %d", cfg.LookaheadCount)
	}
	switch cfg.Grouping {
	case GroupingPerCall, GroupingPerTarget:
	default:
		return cfg, fmt.Errorf("GROUPING must be %q or %q, got %q", GroupingPerCall, GroupingPerTarget, cfg.Grouping)
	}
	if cfg.ReminderHorizonDays <= 0 {
		cfg.ReminderHorizonDays = 14
	}
	if cfg.TelegramToken != "" && cfg.TelegramChatID == 0 {
		return cfg, fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_TOKEN is set")
	}

	return cfg, nil
}

// ReminderInterval is how often the reminder digest runs. Zero disables it.
func (c Config) ReminderInterval() time.Duration {
	if c.ReminderIntervalHours <= 0 {
		return 0
	}
	return time.Duration(c.ReminderIntervalHours) * time.Hour
}

// ReminderHorizon is how far ahead the digest looks.
func (c Config) ReminderHorizon() time.Duration {
	return time.Duration(c.ReminderHorizonDays) * 24 * time.Hour
}

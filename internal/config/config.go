package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// SMTPConfig holds the outbound mail server settings used by campaigns.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// Enabled reports whether enough settings are present to send mail.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.FromEmail != ""
}

// SheetsConfig points the pipeline export at a Google spreadsheet.
type SheetsConfig struct {
	SpreadsheetID   string
	CredentialsFile string
	Range           string
}

// Enabled reports whether the spreadsheet export is configured.
func (c SheetsConfig) Enabled() bool {
	return c.SpreadsheetID != ""
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL          string
	DatabaseMaxConns     int32
	DatabaseLogLevel     string
	JWTSecret            string
	Port                 string
	Env                  string
	LogLevel             string
	AutoMigrate          bool
	DefaultPhoneRegion   string
	RateLimitCampaign    RateLimitConfig
	CampaignSendInterval time.Duration
	TokenTTL             time.Duration
	SMTP                 SMTPConfig
	Sheets               SheetsConfig
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		DatabaseLogLevel:     getEnv("DB_LOG_LEVEL", "error"),
		JWTSecret:            getEnv("JWT_SECRET", "dev-secret"),
		Port:                 getEnv("PORT", "8080"),
		Env:                  getEnv("APP_ENV", "development"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		AutoMigrate:          parseBool(getEnv("AUTO_MIGRATE", "false")),
		DefaultPhoneRegion:   strings.ToUpper(getEnv("DEFAULT_PHONE_REGION", "US")),
		TokenTTL:             parseDuration(getEnv("JWT_TTL", "24h"), 24*time.Hour),
		CampaignSendInterval: parseDuration(getEnv("CAMPAIGN_SEND_INTERVAL", "2s"), 2*time.Second),
		SMTP: SMTPConfig{
			Host:      os.Getenv("SMTP_HOST"),
			Username:  os.Getenv("SMTP_USERNAME"),
			Password:  os.Getenv("SMTP_PASSWORD"),
			FromEmail: os.Getenv("SMTP_FROM_EMAIL"),
			FromName:  getEnv("SMTP_FROM_NAME", "Sales Team"),
		},
		Sheets: SheetsConfig{
			SpreadsheetID:   os.Getenv("GOOGLE_SHEETS_ID"),
			CredentialsFile: os.Getenv("GOOGLE_CREDENTIALS_FILE"),
			Range:           getEnv("GOOGLE_SHEETS_RANGE", "Pipeline!A1"),
		},
	}

	port, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil || port <= 0 {
		return nil, fmt.Errorf("invalid SMTP_PORT value: %q", os.Getenv("SMTP_PORT"))
	}
	cfg.SMTP.Port = port

	maxConns, err := strconv.ParseInt(getEnv("DB_MAX_CONNS", "10"), 10, 32)
	if err != nil || maxConns <= 0 {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS value: %q", os.Getenv("DB_MAX_CONNS"))
	}
	cfg.DatabaseMaxConns = int32(maxConns)

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_CAMPAIGN", "3/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_CAMPAIGN value: %w", err)
	}
	cfg.RateLimitCampaign = rl

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func parseBool(input string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(input))
	return err == nil && v
}

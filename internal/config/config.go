package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AuthMode string

const (
	AuthModeNone  AuthMode = "none"  // No authentication required (default)
	AuthModeLocal AuthMode = "local" // Local user database with sessions
)

// ErrBackendUnconfigured is returned by Validate when no database connection
// details are present.
var ErrBackendUnconfigured = errors.New("backend is not configured: set DATABASE_DSN")

type (
	Config struct {
		HTTP
		Global
		Database
		Auth
		Tasks
		Maintenance
		Booking
		CORS
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Driver   string // "sqlite" or "postgres"
		DSN      string // file path for sqlite, connection URL for postgres
		LogLevel string // "silent", "error", "warn", "info"
	}
	Auth struct {
		Mode            AuthMode
		SessionSecret   string
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool // Set to false for local dev without HTTPS

		// Rate limiting configuration
		MaxLoginAttempts int           // Max failed attempts before lockout (default: 5)
		RateLimitWindow  time.Duration // Time window for counting attempts (default: 15m)
		LockoutDuration  time.Duration // How long to lock out (default: 30m)
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		DBPath          string
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Maintenance struct {
		Enabled              bool
		AuditCleanupSchedule string // Cron format: "0 3 * * *" = daily at 03:00
		DiagnosticsSchedule  string // Cron format: "*/30 * * * *" = every 30 minutes
		AuditRetentionDays   int
	}
	Booking struct {
		SubmitRatePerMinute int  // Booking confirmations allowed per client IP per minute
		SyntheticFallback   bool // Serve generated slots when the availability table is unreachable
	}
	CORS struct {
		AllowedOrigins []string
	}
)

// Validate checks the settings that must be present before anything is
// wired. It is meant to be called once at startup.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return ErrBackendUnconfigured
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: unknown DATABASE_DRIVER %q", ErrBackendUnconfigured, c.Database.Driver)
	}
	switch c.Auth.Mode {
	case AuthModeNone, AuthModeLocal:
	default:
		return fmt.Errorf("unknown AUTH_MODE %q", c.Auth.Mode)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func NewConfig() *Config {
	// A missing .env file is normal outside local development
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	v.SetDefault("database_driver", "sqlite")
	v.SetDefault("database_dsn", DefaultDatabasePath)
	v.SetDefault("database_log_level", "warn")

	// Auth defaults
	v.SetDefault("auth_mode", "none")
	v.SetDefault("auth_session_secret", "")       // Auto-generated if empty
	v.SetDefault("auth_session_lifetime", "24h")  // 24 hours
	v.SetDefault("auth_bcrypt_cost", 12)          // bcrypt cost factor
	v.SetDefault("auth_secure_cookies", true)     // HTTPS-only cookies
	v.SetDefault("auth_max_login_attempts", 5)    // Max failed attempts
	v.SetDefault("auth_rate_limit_window", "15m") // Window for counting attempts
	v.SetDefault("auth_lockout_duration", "30m")  // Lockout duration

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_db_path", DefaultTasksDatabasePath)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("maintenance_enabled", true)
	v.SetDefault("audit_cleanup_schedule", "0 3 * * *")
	v.SetDefault("diagnostics_schedule", "*/30 * * * *")
	v.SetDefault("audit_retention_days", 90)

	v.SetDefault("booking_submit_rate_per_minute", 3)
	v.SetDefault("booking_synthetic_fallback", true)

	v.SetDefault("cors_allowed_origins", "")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver:   strings.ToLower(v.GetString("DATABASE_DRIVER")),
			DSN:      v.GetString("DATABASE_DSN"),
			LogLevel: v.GetString("DATABASE_LOG_LEVEL"),
		},
		Auth: Auth{
			Mode:             AuthMode(v.GetString("AUTH_MODE")),
			SessionSecret:    v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime:  v.GetDuration("AUTH_SESSION_LIFETIME"),
			BcryptCost:       v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:    v.GetBool("AUTH_SECURE_COOKIES"),
			MaxLoginAttempts: v.GetInt("AUTH_MAX_LOGIN_ATTEMPTS"),
			RateLimitWindow:  v.GetDuration("AUTH_RATE_LIMIT_WINDOW"),
			LockoutDuration:  v.GetDuration("AUTH_LOCKOUT_DURATION"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			DBPath:          v.GetString("TASK_DB_PATH"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Maintenance: Maintenance{
			Enabled:              v.GetBool("MAINTENANCE_ENABLED"),
			AuditCleanupSchedule: v.GetString("AUDIT_CLEANUP_SCHEDULE"),
			DiagnosticsSchedule:  v.GetString("DIAGNOSTICS_SCHEDULE"),
			AuditRetentionDays:   v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Booking: Booking{
			SubmitRatePerMinute: v.GetInt("BOOKING_SUBMIT_RATE_PER_MINUTE"),
			SyntheticFallback:   v.GetBool("BOOKING_SYNTHETIC_FALLBACK"),
		},
		CORS: CORS{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}
}

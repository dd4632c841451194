package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mrlokans/lingo/internal/scheduler"
)

type DatabaseDriver string

const (
	DatabaseDriverSQLite   DatabaseDriver = "sqlite"
	DatabaseDriverPostgres DatabaseDriver = "postgres"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Content
		Auth
		Tasks
		Scheduler
		Audit
		Log

		// Warnings collected while loading, logged once a logger exists.
		Warnings []string
	}

	HTTP struct {
		Port        int32
		Host        string
		CORSOrigins []string // Empty slice disables CORS handling
		HSTS        bool     // Send Strict-Transport-Security on HTTPS requests
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}

	Database struct {
		Driver          DatabaseDriver
		Path            string // SQLite file path
		DSN             string // Postgres connection string
		MaxOpenConns    int
		MaxIdleConns    int
		ConnMaxLifetime time.Duration
		LogLevel        string // silent, error, warn, info
	}

	Content struct {
		Dir      string
		Watch    bool          // Reload the library when files change
		Debounce time.Duration // Quiet period before a reload
	}

	Auth struct {
		JWTSecret      string
		JWTIssuer      string // Optional, checked when set
		JWTAudience    string // Optional, checked when set
		JWTLeeway      time.Duration
		InternalSecret string // Shared with the auth service for /internal routes
	}

	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
		PurgeDelay      time.Duration // How long a soft-deleted user waits before purge
	}

	Scheduler struct {
		Enabled          bool
		AuditCleanupCron string // Cron format: "30 3 * * *" = daily at 03:30
		PurgeSweepCron   string // Cron format: "0 * * * *" = hourly
	}

	Audit struct {
		RetentionDays int
	}

	Log struct {
		Level  string // debug, info, warn, error
		Format string // json or console
	}
)

// NewConfig builds the configuration from the environment. A .env file in the
// working directory is loaded first when present; LINGO_CONFIG may point to an
// additional config file in any format viper understands.
func NewConfig() *Config {
	var warnings []string
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		warnings = append(warnings, fmt.Sprintf("failed to load .env file: %v", err))
	}

	v := viper.New()
	v.AutomaticEnv()

	if path := os.Getenv("LINGO_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			warnings = append(warnings, fmt.Sprintf("failed to read config file %s: %v", path, err))
		}
	}

	v.SetDefault("port", 8080)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("cors_origins", "")
	v.SetDefault("hsts_enabled", false)
	v.SetDefault("shutdown_timeout_in_seconds", 5)

	v.SetDefault("database_driver", string(DatabaseDriverSQLite))
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")
	v.SetDefault("database_max_open_conns", 10)
	v.SetDefault("database_max_idle_conns", 5)
	v.SetDefault("database_conn_max_lifetime", "1h")
	v.SetDefault("database_log_level", "warn")

	v.SetDefault("content_dir", DefaultContentDir)
	v.SetDefault("content_watch", false)
	v.SetDefault("content_debounce", "500ms")

	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_issuer", "")
	v.SetDefault("jwt_audience", "")
	v.SetDefault("jwt_leeway", "30s")
	v.SetDefault("internal_secret", "")

	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("user_purge_delay", "0s")

	v.SetDefault("scheduler_enabled", true)
	v.SetDefault("audit_cleanup_cron", "30 3 * * *") // Daily at 03:30
	v.SetDefault("purge_sweep_cron", "0 * * * *")    // Hourly at :00

	v.SetDefault("audit_retention_days", 30)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	return &Config{
		HTTP: HTTP{
			Port:        v.GetInt32("PORT"),
			Host:        v.GetString("HOST"),
			CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),
			HSTS:        v.GetBool("HSTS_ENABLED"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver:          DatabaseDriver(strings.ToLower(v.GetString("DATABASE_DRIVER"))),
			Path:            v.GetString("DATABASE_PATH"),
			DSN:             v.GetString("DATABASE_DSN"),
			MaxOpenConns:    v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DATABASE_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DATABASE_CONN_MAX_LIFETIME"),
			LogLevel:        v.GetString("DATABASE_LOG_LEVEL"),
		},
		Content: Content{
			Dir:      v.GetString("CONTENT_DIR"),
			Watch:    v.GetBool("CONTENT_WATCH"),
			Debounce: v.GetDuration("CONTENT_DEBOUNCE"),
		},
		Auth: Auth{
			JWTSecret:      v.GetString("JWT_SECRET"),
			JWTIssuer:      v.GetString("JWT_ISSUER"),
			JWTAudience:    v.GetString("JWT_AUDIENCE"),
			JWTLeeway:      v.GetDuration("JWT_LEEWAY"),
			InternalSecret: v.GetString("INTERNAL_SECRET"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
			PurgeDelay:      v.GetDuration("USER_PURGE_DELAY"),
		},
		Scheduler: Scheduler{
			Enabled:          v.GetBool("SCHEDULER_ENABLED"),
			AuditCleanupCron: v.GetString("AUDIT_CLEANUP_CRON"),
			PurgeSweepCron:   v.GetString("PURGE_SWEEP_CRON"),
		},
		Audit: Audit{
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Warnings: warnings,
	}
}

// Validate reports configuration that would make the server unusable.
func (c *Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Auth.InternalSecret == "" {
		errs = append(errs, errors.New("INTERNAL_SECRET is required"))
	}
	switch c.Database.Driver {
	case DatabaseDriverSQLite:
		if c.Database.Path == "" {
			errs = append(errs, errors.New("DATABASE_PATH is required for sqlite"))
		}
	case DatabaseDriverPostgres:
		if c.Database.DSN == "" {
			errs = append(errs, errors.New("DATABASE_DSN is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver))
	}
	if c.Content.Dir == "" {
		errs = append(errs, errors.New("CONTENT_DIR is required"))
	}
	if c.Scheduler.Enabled {
		for name, schedule := range map[string]string{
			"AUDIT_CLEANUP_CRON": c.Scheduler.AuditCleanupCron,
			"PURGE_SWEEP_CRON":   c.Scheduler.PurgeSweepCron,
		} {
			if schedule == "" {
				continue
			}
			if err := scheduler.ValidateSchedule(schedule); err != nil {
				errs = append(errs, fmt.Errorf("invalid %s %q: %w", name, schedule, err))
			}
		}
	}
	return errors.Join(errs...)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

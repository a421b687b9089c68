package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	SLA          SLAConfig
	Tickets      TicketConfig
	Maintenance  MaintenanceConfig
	Notification NotificationConfig
	Seed         SeedConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values. An empty DSN disables Postgres.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// Enabled reports whether a DSN is configured.
func (p PostgresConfig) Enabled() bool { return p.DSN != "" }

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether an address is configured.
func (r RedisConfig) Enabled() bool { return r.Addr != "" }

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// AuthConfig defines session token parameters.
type AuthConfig struct {
	JWTSecret         string
	SessionTTLMinutes int
}

// SLAConfig holds resolution thresholds per priority and the inactivity
// window after which open tickets are closed.
type SLAConfig struct {
	High       time.Duration
	Medium     time.Duration
	Low        time.Duration
	Inactivity time.Duration
}

// TicketConfig controls display id formatting.
type TicketConfig struct {
	IDPrefix string
}

// MaintenanceConfig schedules the periodic sweep.
type MaintenanceConfig struct {
	Enabled  bool
	Schedule string
	LockTTL  time.Duration
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// SeedConfig points at a fixtures file. Empty means built-in demo data.
type SeedConfig struct {
	File string
}

// Load reads configuration from environment variables, applying defaults
// where possible. envFiles are loaded first; a missing file is ignored.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "ticket-dashboard"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			File:       os.Getenv("LOG_FILE"),
			MaxSizeMB:  getEnvAsInt("LOG_FILE_MAX_SIZE_MB", 100),
			MaxBackups: getEnvAsInt("LOG_FILE_MAX_BACKUPS", 3),
			MaxAgeDays: getEnvAsInt("LOG_FILE_MAX_AGE_DAYS", 28),
		},
		Auth: AuthConfig{
			JWTSecret:         getEnv("AUTH_JWT_SECRET", "dev-secret"),
			SessionTTLMinutes: getEnvAsInt("AUTH_SESSION_TTL_MINUTES", 480),
		},
		SLA: SLAConfig{
			High:       getEnvAsHours("SLA_HIGH_HOURS", 4),
			Medium:     getEnvAsHours("SLA_MEDIUM_HOURS", 24),
			Low:        getEnvAsHours("SLA_LOW_HOURS", 72),
			Inactivity: getEnvAsHours("SLA_INACTIVITY_HOURS", 168),
		},
		Tickets: TicketConfig{
			IDPrefix: getEnv("TICKET_ID_PREFIX", "TKT"),
		},
		Maintenance: MaintenanceConfig{
			Enabled:  getEnvAsBool("MAINTENANCE_ENABLED", true),
			Schedule: getEnv("MAINTENANCE_SCHEDULE", "@every 1h"),
			LockTTL:  time.Duration(getEnvAsInt("MAINTENANCE_LOCK_TTL_SECONDS", 300)) * time.Second,
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
		Seed: SeedConfig{
			File: os.Getenv("SEED_FILE"),
		},
	}

	if err := cfg.SLA.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s SLAConfig) validate() error {
	var errs []error
	for name, d := range map[string]time.Duration{
		"SLA_HIGH_HOURS":       s.High,
		"SLA_MEDIUM_HOURS":     s.Medium,
		"SLA_LOW_HOURS":        s.Low,
		"SLA_INACTIVITY_HOURS": s.Inactivity,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	return errors.Join(errs...)
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// SessionTTL returns how long issued session tokens stay valid.
func (a AuthConfig) SessionTTL() time.Duration {
	return time.Duration(a.SessionTTLMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

// getEnvAsHours accepts fractional hours so short thresholds can be
// configured for demos.
func getEnvAsHours(key string, fallback float64) time.Duration {
	hours := fallback
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			hours = parsed
		}
	}
	return time.Duration(hours * float64(time.Hour))
}

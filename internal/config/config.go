package config

import (
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
	Notification NotificationConfig
	Scheduler    SchedulerConfig
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

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	RunMigrations   bool
	ConnMaxIdleSec  int32
	ConnMaxLifeSec  int32
	// ApplicationName tags sessions in pg_stat_activity unless the DSN sets one.
	ApplicationName string
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// NotificationConfig controls realtime fan-out of notifications.
type NotificationConfig struct {
	ChannelPrefix string
}

// SchedulerConfig drives the periodic shipment status updater.
type SchedulerConfig struct {
	Enabled           bool
	Spec              string
	PendingAfterHours int
	OnRouteAfterHours int
	LockTTLSeconds    int
	// RequireLock skips runs while Redis is unreachable instead of running unlocked.
	RequireLock       bool
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "shipment-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:             os.Getenv("POSTGRES_DSN"),
			MaxConns:        int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:        int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:   getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec:  int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec:  int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
			ApplicationName: getEnv("POSTGRES_APPLICATION_NAME", "shipment-service"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Notification: NotificationConfig{
			ChannelPrefix: getEnv("NOTIFY_REALTIME_CHANNEL_PREFIX", "notifications:"),
		},
		Scheduler: SchedulerConfig{
			Enabled:           getEnvAsBool("SCHEDULER_ENABLED", true),
			Spec:              getEnv("SCHEDULER_SPEC", "@every 1h"),
			PendingAfterHours: getEnvAsInt("SCHEDULER_PENDING_AFTER_HOURS", 24),
			OnRouteAfterHours: getEnvAsInt("SCHEDULER_ON_ROUTE_AFTER_HOURS", 72),
			LockTTLSeconds:    getEnvAsInt("SCHEDULER_LOCK_TTL_SECONDS", 300),
			RequireLock:       getEnvAsBool("SCHEDULER_REQUIRE_LOCK", false),
		},
	}

	if cfg.Auth.AccessTokenTTLMinutes <= 0 {
		return nil, fmt.Errorf("AUTH_ACCESS_TOKEN_TTL_MINUTES must be positive")
	}
	if cfg.Scheduler.PendingAfterHours <= 0 || cfg.Scheduler.OnRouteAfterHours <= 0 {
		return nil, fmt.Errorf("scheduler thresholds must be positive")
	}
	if cfg.Scheduler.LockTTLSeconds <= 0 {
		return nil, fmt.Errorf("SCHEDULER_LOCK_TTL_SECONDS must be positive")
	}

	return cfg, nil
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

// PendingAfter is the age after which a pending shipment is moved on route.
func (s SchedulerConfig) PendingAfter() time.Duration {
	return time.Duration(s.PendingAfterHours) * time.Hour
}

// OnRouteAfter is the age after which an on-route shipment is marked delivered.
func (s SchedulerConfig) OnRouteAfter() time.Duration {
	return time.Duration(s.OnRouteAfterHours) * time.Hour
}

// LockTTL bounds how long one replica holds the updater lock.
func (s SchedulerConfig) LockTTL() time.Duration {
	return time.Duration(s.LockTTLSeconds) * time.Second
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

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go-hris-analytics/internal/shared/connection"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  connection.DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Analytics AnalyticsConfig
}

type AppConfig struct {
	Environment string
	Port        string
	JWTSecret   string // empty disables bearer auth on the report API
}

type RedisConfig struct {
	Addr string // empty disables the report cache
}

type KafkaConfig struct {
	Broker     string
	GroupID    string
	MaxRetries int // handler retries per message before it is dropped
}

type AnalyticsConfig struct {
	CacheTTL         time.Duration
	DashboardWorkers int
	WarmInterval     time.Duration
}

func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Load reads .env when present, then the environment. Unset values fall back
// to defaults; malformed numbers and durations are errors.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("PORT", "3000"),
			JWTSecret:   getEnv("JWT_SECRET", ""),
		},
		Database: connection.DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", connection.DriverPostgres),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			User:       getEnv("DB_USER", "postgres"),
			Password:   getEnv("DB_PASSWORD", ""),
			Name:       getEnv("DB_NAME", "hr"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			SQLitePath: getEnv("SQLITE_PATH", "hr_database.db"),
		},
		Redis: RedisConfig{
			Addr: getEnv("REDIS_ADDR", ""),
		},
		Kafka: KafkaConfig{
			Broker:  getEnv("KAFKA_BROKER", ""),
			GroupID: getEnv("KAFKA_GROUP_ID", "go-hris-analytics"),
		},
	}

	var err error
	if cfg.Analytics.CacheTTL, err = getDuration("REPORT_CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.Analytics.WarmInterval, err = getDuration("WARM_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.Analytics.DashboardWorkers, err = getInt("DASHBOARD_WORKERS", 4); err != nil {
		return nil, err
	}
	if cfg.Kafka.MaxRetries, err = getInt("KAFKA_MAX_RETRIES", 5); err != nil {
		return nil, err
	}
	if cfg.Kafka.MaxRetries < 0 {
		return nil, fmt.Errorf("KAFKA_MAX_RETRIES must not be negative, got %d", cfg.Kafka.MaxRetries)
	}
	if cfg.Analytics.DashboardWorkers < 1 {
		return nil, fmt.Errorf("DASHBOARD_WORKERS must be at least 1, got %d", cfg.Analytics.DashboardWorkers)
	}

	switch cfg.Database.Driver {
	case connection.DriverPostgres, connection.DriverSQLite:
	default:
		return nil, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", connection.DriverPostgres, connection.DriverSQLite, cfg.Database.Driver)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

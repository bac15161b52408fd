package config

import (
	"testing"
	"time"

	"go-hris-analytics/internal/shared/connection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"DB_DRIVER", "PORT", "REPORT_CACHE_TTL", "DASHBOARD_WORKERS", "WARM_INTERVAL", "JWT_SECRET", "SQLITE_PATH", "KAFKA_MAX_RETRIES"} {
		t.Setenv(k, "")
	}
	t.Setenv("DB_DRIVER", connection.DriverPostgres)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, cfg.Analytics.CacheTTL)
	assert.Equal(t, 5*time.Minute, cfg.Analytics.WarmInterval)
	assert.Equal(t, 4, cfg.Analytics.DashboardWorkers)
	assert.Equal(t, "", cfg.App.JWTSecret)
	assert.Equal(t, 5, cfg.Kafka.MaxRetries)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/hr.db")
	t.Setenv("REPORT_CACHE_TTL", "30s")
	t.Setenv("DASHBOARD_WORKERS", "8")
	t.Setenv("APP_ENV", "Production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, connection.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/hr.db", cfg.Database.SQLitePath)
	assert.Equal(t, 30*time.Second, cfg.Analytics.CacheTTL)
	assert.Equal(t, 8, cfg.Analytics.DashboardWorkers)
	assert.True(t, cfg.App.IsProduction())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad duration", "REPORT_CACHE_TTL", "soon"},
		{"bad workers", "DASHBOARD_WORKERS", "many"},
		{"zero workers", "DASHBOARD_WORKERS", "0"},
		{"bad driver", "DB_DRIVER", "oracle"},
		{"negative retries", "KAFKA_MAX_RETRIES", "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_DRIVER", connection.DriverPostgres)
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

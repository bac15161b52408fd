package connection

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialector(t *testing.T) {
	t.Run("postgres by default", func(t *testing.T) {
		d, err := DatabaseConfig{Host: "localhost"}.dialector()
		require.NoError(t, err)
		assert.Equal(t, "postgres", d.Name())
	})

	t.Run("sqlite", func(t *testing.T) {
		d, err := DatabaseConfig{Driver: DriverSQLite, SQLitePath: "hr_database.db"}.dialector()
		require.NoError(t, err)
		assert.Equal(t, "sqlite", d.Name())
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := DatabaseConfig{Driver: "oracle"}.dialector()
		assert.ErrorContains(t, err, "oracle")
	})
}

func TestConnectGORMWithRetry_SQLite(t *testing.T) {
	retryDelay = 0
	path := filepath.Join(t.TempDir(), "hr.db")

	db, err := ConnectGORMWithRetry(DatabaseConfig{Driver: DriverSQLite, SQLitePath: path}, 1)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

// Package dbtest opens a migrated in-memory sqlite database for tests.
package dbtest

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fault-service/internal/config"
	"fault-service/internal/db"
)

func Open(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := &config.Config{
		Environment: "test",
		Location:    time.UTC,
		DB: config.DBConfig{
			Driver: config.DriverSQLite,
			DSN:    ":memory:",
			// Every pooled connection to :memory: is a separate database.
			MaxOpenConns: 1,
		},
	}
	database, err := db.New(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close(database)
	})
	return database
}

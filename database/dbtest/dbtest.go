// Package dbtest opens throwaway in-memory databases for tests.
package dbtest

import (
	"testing"

	"github.com/krishkalaria12/imageworld/config"
	"github.com/krishkalaria12/imageworld/database"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Open returns a migrated in-memory SQLite database closed at test cleanup.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(&config.Settings{
		DBDriver:    "sqlite",
		DatabaseURL: ":memory:",
		LogLevel:    "error",
	}, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		_ = database.Close(db)
	})

	return db
}

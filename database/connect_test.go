package database

import (
	"testing"

	"github.com/krishkalaria12/imageworld/config"
	"github.com/krishkalaria12/imageworld/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestOpenAndMigrateSQLite(t *testing.T) {
	db, err := Open(&config.Settings{DBDriver: "sqlite", DatabaseURL: ":memory:"}, zerolog.Nop())
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, Close(db))
	}()

	require.NoError(t, Migrate(db))

	assert.True(t, db.Migrator().HasTable(&models.Account{}))
	assert.True(t, db.Migrator().HasTable(&models.ProcessingLog{}))
	assert.True(t, db.Migrator().HasColumn(&models.ProcessingLog{}, "file_size_mb"))
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(&config.Settings{DBDriver: "oracle"}, zerolog.Nop())
	require.Error(t, err)
}

func TestCloseNil(t *testing.T) {
	assert.NoError(t, Close(nil))
}

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, logger.Info, gormLogLevel("debug"))
	assert.Equal(t, logger.Warn, gormLogLevel("warn"))
	assert.Equal(t, logger.Error, gormLogLevel("error"))
	assert.Equal(t, logger.Silent, gormLogLevel("info"))
}

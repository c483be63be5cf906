package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/reviewerdesk/internal/models"
)

func TestOpenSQLiteMemory(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.Exec("SELECT 1").Error)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"})
	require.ErrorContains(t, err, `unsupported database driver "oracle"`)
}

func TestOpenAppliesPoolSettings(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite", MaxOpenConns: 4, ConnMaxLifetime: time.Minute})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.Equal(t, 4, sqlDB.Stats().MaxOpenConnections)
}

func TestAutoMigrateAndSeedData(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, AutoMigrateAndSeed(db))
	// Seeding twice must not duplicate the system editor.
	require.NoError(t, SeedData(db))

	var editors []models.Editor
	require.NoError(t, db.Find(&editors).Error)
	require.Len(t, editors, 1)
	require.Equal(t, models.SystemEditorID, editors[0].ID)
	require.True(t, editors[0].IsActive)
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(Config{Driver: "sqlite"})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

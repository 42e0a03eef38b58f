package settings

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/consultorio/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_settings_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Setting{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_UpsertSettings_New(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	err := repo.UpsertSettings(ctx, []entities.Setting{
		{Key: "site_name", Value: `"Templo"`, Type: entities.SettingTypeString},
		{Key: "consultation_price", Value: "150.5", Type: entities.SettingTypeNumber},
	})
	require.NoError(t, err)

	rows, err := repo.ListSettings(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "consultation_price", rows[0].Key)
	assert.Equal(t, entities.SettingTypeNumber, rows[0].Type)
}

func TestRepository_UpsertSettings_Existing(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, repo.UpsertSettings(ctx, []entities.Setting{
		{Key: "backup_enabled", Value: "false", Type: entities.SettingTypeBoolean},
	}))
	require.NoError(t, repo.UpsertSettings(ctx, []entities.Setting{
		{Key: "backup_enabled", Value: "true", Type: entities.SettingTypeBoolean},
		{Key: "address", Value: `"Rua A, 1"`, Type: entities.SettingTypeString},
	}))

	setting, err := repo.GetSetting(ctx, "backup_enabled")
	require.NoError(t, err)
	assert.Equal(t, "true", setting.Value)

	rows, err := repo.ListSettings(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestRepository_UpsertSettings_Empty(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	assert.NoError(t, repo.UpsertSettings(context.Background(), nil))
}

func TestRepository_GetSetting_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetSetting(context.Background(), "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

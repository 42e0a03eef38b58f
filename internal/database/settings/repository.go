// Package settings provides database operations for the system_settings
// key/value/type table.
//
// Rows are never deleted by the application; saving is a single batch
// upsert keyed by key.
//
// # Usage
//
//	repo := settings.NewRepository(db)
//	rows, err := repo.ListSettings(ctx)
//	err = repo.UpsertSettings(ctx, []entities.Setting{{Key: "site_name", Value: `"Templo"`, Type: "string"}})
package settings

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/consultorio/internal/entities"
)

// Repository handles all settings database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new settings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListSettings returns every setting row.
func (r *Repository) ListSettings(ctx context.Context) ([]entities.Setting, error) {
	var rows []entities.Setting
	err := r.db.WithContext(ctx).Order("key ASC").Find(&rows).Error
	return rows, err
}

// GetSetting retrieves a setting by key.
func (r *Repository) GetSetting(ctx context.Context, key string) (*entities.Setting, error) {
	var setting entities.Setting
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// UpsertSettings writes all rows in one statement, replacing value and type
// of keys that already exist. Either every row is written or none is.
func (r *Repository) UpsertSettings(ctx context.Context, rows []entities.Setting) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "type", "updated_at"}),
	}).Create(&rows).Error
}

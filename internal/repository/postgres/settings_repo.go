package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/investplatform/admin-backend/internal/models"
)

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) List(ctx context.Context) ([]models.Setting, error) {
	settings := make([]models.Setting, 0)
	err := r.db.WithContext(ctx).Order("key ASC").Find(&settings).Error
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *SettingsRepository) Get(ctx context.Context, key string) (*models.Setting, error) {
	out := &models.Setting{}
	err := r.db.WithContext(ctx).First(out, "key = ?", key).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Upsert writes every provided key in one transaction so a partial
// settings update never becomes visible.
func (r *SettingsRepository) Upsert(ctx context.Context, settings []models.Setting) error {
	if len(settings) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range settings {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&settings[i]).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/investplatform/admin-backend/internal/listquery"
	"github.com/investplatform/admin-backend/internal/models"
)

type SupportRepository struct {
	db *gorm.DB
}

func NewSupportRepository(db *gorm.DB) *SupportRepository {
	return &SupportRepository{db: db}
}

func (r *SupportRepository) List(ctx context.Context, q listquery.Params) ([]models.SupportRequest, int64, error) {
	var count int64
	if err := q.ApplyFilters(r.db.WithContext(ctx).Model(&models.SupportRequest{})).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}
	requests := make([]models.SupportRequest, 0)
	err := q.Apply(r.db.WithContext(ctx).Model(&models.SupportRequest{})).
		Preload("User").
		Find(&requests).Error
	if err != nil {
		return nil, 0, err
	}
	return requests, count, nil
}

func (r *SupportRepository) GetByID(ctx context.Context, id string) (*models.SupportRequest, error) {
	out := &models.SupportRequest{}
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(out, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SupportRepository) UpdateStatus(ctx context.Context, id string, status models.SupportStatus) error {
	return r.db.WithContext(ctx).Model(&models.SupportRequest{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// Reply appends the reply and marks the request answered in one transaction.
func (r *SupportRepository) Reply(ctx context.Context, reply *models.SupportReply) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(reply).Error; err != nil {
			return err
		}
		return tx.Model(&models.SupportRequest{}).
			Where("id = ?", reply.RequestID).
			Update("status", models.SupportAnswered).Error
	})
}

func (r *SupportRepository) CountByStatus(ctx context.Context, status models.SupportStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SupportRequest{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

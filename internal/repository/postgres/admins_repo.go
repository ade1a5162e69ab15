package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/investplatform/admin-backend/internal/listquery"
	"github.com/investplatform/admin-backend/internal/models"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) List(ctx context.Context, q listquery.Params) ([]models.Admin, int64, error) {
	var count int64
	if err := q.ApplyFilters(r.db.WithContext(ctx).Model(&models.Admin{})).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}
	admins := make([]models.Admin, 0)
	err := q.Apply(r.db.WithContext(ctx).Model(&models.Admin{})).Find(&admins).Error
	if err != nil {
		return nil, 0, err
	}
	return admins, count, nil
}

func (r *AdminRepository) GetByID(ctx context.Context, id string) (*models.Admin, error) {
	out := &models.Admin{}
	err := r.db.WithContext(ctx).First(out, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	out := &models.Admin{}
	err := r.db.WithContext(ctx).First(out, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

func (r *AdminRepository) Update(ctx context.Context, admin *models.Admin) error {
	return r.db.WithContext(ctx).Save(admin).Error
}

func (r *AdminRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Admin{}, "id = ?", id).Error
}

// Sessions.

func (r *AdminRepository) CreateSession(ctx context.Context, s *models.AdminSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *AdminRepository) GetSession(ctx context.Context, id string) (*models.AdminSession, error) {
	out := &models.AdminSession{}
	err := r.db.WithContext(ctx).First(out, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AdminRepository) UpdateSession(ctx context.Context, s *models.AdminSession) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *AdminRepository) CloseSession(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.AdminSession{}).
		Where("id = ?", id).
		Update("status", models.SessionStatusClosed).Error
}

func (r *AdminRepository) CloseSessionsForAdmin(ctx context.Context, adminID string) error {
	return r.db.WithContext(ctx).Model(&models.AdminSession{}).
		Where("admin_id = ? AND status = ?", adminID, models.SessionStatusActive).
		Update("status", models.SessionStatusClosed).Error
}

func (r *AdminRepository) ListSessions(ctx context.Context, adminID string, q listquery.Params) ([]models.AdminSession, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.AdminSession{}).Where("admin_id = ?", adminID)
	}
	var count int64
	if err := q.ApplyFilters(base()).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	sessions := make([]models.AdminSession, 0)
	err := q.Apply(base()).Find(&sessions).Error
	if err != nil {
		return nil, 0, err
	}
	return sessions, count, nil
}

func (r *AdminRepository) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&models.AdminSession{})
	return res.RowsAffected, res.Error
}

// Logs.

func (r *AdminRepository) CreateLog(ctx context.Context, entry *models.AdminLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *AdminRepository) ListLogs(ctx context.Context, q listquery.Params) ([]models.AdminLog, int64, error) {
	var count int64
	if err := q.ApplyFilters(r.db.WithContext(ctx).Model(&models.AdminLog{})).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}
	logs := make([]models.AdminLog, 0)
	err := q.Apply(r.db.WithContext(ctx).Model(&models.AdminLog{})).Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, count, nil
}

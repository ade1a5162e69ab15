package postgres

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/investplatform/admin-backend/internal/listquery"
	"github.com/investplatform/admin-backend/internal/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context, q listquery.Params) ([]models.User, int64, error) {
	var count int64
	if err := q.ApplyFilters(r.db.WithContext(ctx).Model(&models.User{})).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	users := make([]models.User, 0)
	err := q.Apply(r.db.WithContext(ctx).Model(&models.User{})).
		Preload("Profiles", "status NOT IN ?", []string{string(models.ProfileStatusHistory), string(models.ProfileStatusCreated)}).
		Preload("Profiles.Wallet").
		Preload("Profiles.EntityAccount").
		Preload("Profiles.EntrepreneurAccount").
		Preload("Document").
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, count, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	out := &models.User{}
	err := r.db.WithContext(ctx).
		Preload("Profiles").
		Preload("Profiles.Wallet").
		Preload("Profiles.EntityAccount").
		Preload("Profiles.EntrepreneurAccount").
		Preload("Document").
		First(out, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// UpdateStatus writes the status together with the settings column so a
// stashed previous status lands in the same statement.
func (r *UserRepository) UpdateStatus(ctx context.Context, id string, status models.UserStatus, settings json.RawMessage) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":   status,
			"settings": settings,
		}).Error
}

// CountByStatus returns per-status counts for the stats endpoint.
func (r *UserRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	rows := make([]struct {
		Status string
		Count  int64
	}, 0)
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("status, count(*) AS count").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

func (r *UserRepository) CountInvestors(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserProfile{}).
		Where("role = ?", models.RoleInvestor).
		Count(&count).Error
	return count, err
}

func (r *UserRepository) ListLogs(ctx context.Context, q listquery.Params) ([]models.UserLog, int64, error) {
	var count int64
	if err := q.ApplyFilters(r.db.WithContext(ctx).Model(&models.UserLog{})).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}
	logs := make([]models.UserLog, 0)
	err := q.Apply(r.db.WithContext(ctx).Model(&models.UserLog{})).Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, count, nil
}

// ListActiveIDs returns the ids of every user a broadcast should reach.
func (r *UserRepository) ListActiveIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0)
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("status <> ?", models.UserStatusBanned).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *UserRepository) CreateLog(ctx context.Context, log *models.UserLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/investplatform/admin-backend/internal/listquery"
	"github.com/investplatform/admin-backend/internal/models"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// User notifications.

func (r *NotificationRepository) ListForUser(ctx context.Context, userID string, q listquery.Params) ([]models.UserNotification, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.UserNotification{}).Where("user_id = ?", userID)
	}
	var count int64
	if err := q.ApplyFilters(base()).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	notifications := make([]models.UserNotification, 0)
	err := q.Apply(base()).Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}
	return notifications, count, nil
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.UserNotification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// CreateTx writes the notification inside an existing transaction so it
// commits (or rolls back) together with the action that caused it.
func (r *NotificationRepository) CreateTx(tx *gorm.DB, n *models.UserNotification) error {
	return tx.Create(n).Error
}

func (r *NotificationRepository) CreateBroadcast(ctx context.Context, notifications []models.UserNotification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(notifications, 500).Error
}

// Outbox.

// ClaimPending locks up to limit pending rows that are due for dispatch.
// SKIP LOCKED keeps concurrent workers from claiming the same rows.
func (r *NotificationRepository) ClaimPending(ctx context.Context, limit int) ([]models.UserNotification, error) {
	notifications := make([]models.UserNotification, 0, limit)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("outbox = ? AND available_at <= ?", models.OutboxStatusPending, time.Now()).
			Order("available_at ASC").
			Limit(limit).
			Find(&notifications).Error
	})
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *NotificationRepository) MarkDone(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.UserNotification{}).
		Where("id = ?", id).
		Update("outbox", models.OutboxStatusDone).Error
}

func (r *NotificationRepository) MarkRetry(ctx context.Context, id string, attempts int, lastErr string, nextAt time.Time) error {
	return r.db.WithContext(ctx).Model(&models.UserNotification{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"attempts":     attempts,
			"last_error":   lastErr,
			"available_at": nextAt,
		}).Error
}

func (r *NotificationRepository) MarkFailed(ctx context.Context, id string, lastErr string) error {
	return r.db.WithContext(ctx).Model(&models.UserNotification{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"outbox":     models.OutboxStatusFailed,
			"last_error": lastErr,
		}).Error
}

// Admin notifications.

func (r *NotificationRepository) ListForAdmin(ctx context.Context, adminID string, q listquery.Params) ([]models.AdminNotification, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.AdminNotification{}).
			Where("admin_id = ? OR admin_id IS NULL", adminID)
	}
	var count int64
	if err := q.ApplyFilters(base()).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	notifications := make([]models.AdminNotification, 0)
	err := q.Apply(base()).Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}
	return notifications, count, nil
}

func (r *NotificationRepository) CreateAdmin(ctx context.Context, n *models.AdminNotification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationRepository) ListAdminCreatedSince(ctx context.Context, since time.Time, limit int) ([]models.AdminNotification, error) {
	notifications := make([]models.AdminNotification, 0)
	err := r.db.WithContext(ctx).
		Where("created_at > ?", since).
		Order("created_at ASC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *NotificationRepository) MarkAdminRead(ctx context.Context, adminID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.AdminNotification{}).
		Where("id IN ? AND (admin_id = ? OR admin_id IS NULL)", ids, adminID).
		Update("read", true).Error
}

// Package notifications lets operators message platform users and read
// their own alert feed. User messages go through the outbox so delivery
// survives a queue outage.
package notifications

import (
	"context"
	"encoding/json"

	"github.com/investplatform/admin-backend/internal/apierr"
	"github.com/investplatform/admin-backend/internal/listquery"
	"github.com/investplatform/admin-backend/internal/models"
)

type Repository interface {
	ListForUser(ctx context.Context, userID string, q listquery.Params) ([]models.UserNotification, int64, error)
	Create(ctx context.Context, n *models.UserNotification) error
	CreateBroadcast(ctx context.Context, notifications []models.UserNotification) error
	ListForAdmin(ctx context.Context, adminID string, q listquery.Params) ([]models.AdminNotification, int64, error)
	MarkAdminRead(ctx context.Context, adminID string, ids []string) error
}

type UserSource interface {
	ListActiveIDs(ctx context.Context) ([]string, error)
}

type Service struct {
	repo  Repository
	users UserSource
}

func NewService(repo Repository, users UserSource) *Service {
	return &Service{repo: repo, users: users}
}

func (s *Service) ListForUser(ctx context.Context, userID string, q listquery.Params) ([]models.UserNotification, int64, error) {
	return s.repo.ListForUser(ctx, userID, q)
}

// Send queues one message for a user.
func (s *Service) Send(ctx context.Context, userID, message string, data json.RawMessage) (*models.UserNotification, error) {
	if userID == "" || message == "" {
		return nil, apierr.New(apierr.InvalidPayload)
	}
	n := &models.UserNotification{
		UserID:  userID,
		Type:    models.NotificationBroadcast,
		Message: message,
		Data:    data,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// Broadcast queues the message for every non-banned user.
func (s *Service) Broadcast(ctx context.Context, message string, data json.RawMessage) (int, error) {
	if message == "" {
		return 0, apierr.New(apierr.InvalidPayload)
	}
	ids, err := s.users.ListActiveIDs(ctx)
	if err != nil {
		return 0, err
	}
	batch := make([]models.UserNotification, 0, len(ids))
	for _, id := range ids {
		batch = append(batch, models.UserNotification{
			UserID:  id,
			Type:    models.NotificationBroadcast,
			Message: message,
			Data:    data,
		})
	}
	if err := s.repo.CreateBroadcast(ctx, batch); err != nil {
		return 0, err
	}
	return len(batch), nil
}

func (s *Service) ListForAdmin(ctx context.Context, adminID string, q listquery.Params) ([]models.AdminNotification, int64, error) {
	return s.repo.ListForAdmin(ctx, adminID, q)
}

func (s *Service) MarkRead(ctx context.Context, adminID string, ids []string) error {
	if len(ids) == 0 {
		return apierr.New(apierr.InvalidPayload)
	}
	return s.repo.MarkAdminRead(ctx, adminID, ids)
}

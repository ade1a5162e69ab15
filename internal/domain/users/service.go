// Package users holds the back-office operations on platform users:
// listing, staged-edit confirmation, ban and unban, and the audit log.
package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/investplatform/admin-backend/internal/apierr"
	"github.com/investplatform/admin-backend/internal/listquery"
	"github.com/investplatform/admin-backend/internal/models"
	"github.com/investplatform/admin-backend/internal/overlay"
)

const bannedStatusKey = "statusBeforeBan"

type Repository interface {
	List(ctx context.Context, q listquery.Params) ([]models.User, int64, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateStatus(ctx context.Context, id string, status models.UserStatus, settings json.RawMessage) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountInvestors(ctx context.Context) (int64, error)
	ListLogs(ctx context.Context, q listquery.Params) ([]models.UserLog, int64, error)
}

type NotificationSink interface {
	Create(ctx context.Context, n *models.UserNotification) error
}

type Service struct {
	repo          Repository
	notifications NotificationSink
}

func NewService(repo Repository, notifications NotificationSink) *Service {
	return &Service{repo: repo, notifications: notifications}
}

func (s *Service) List(ctx context.Context, q listquery.Params) ([]models.User, int64, error) {
	return s.repo.List(ctx, q)
}

func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.New(apierr.NotFound)
		}
		return nil, err
	}
	return user, nil
}

// Stage merges changes into the user's pending updates without touching
// the approved columns.
func (s *Service) Stage(ctx context.Context, id string, changes map[string]any) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	staged, err := overlay.Stage(user.Updates, changes)
	if err != nil {
		return nil, apierr.New(apierr.InvalidPayload)
	}
	user.Updates = staged
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Confirm applies the pending updates onto the user and clears them.
func (s *Service) Confirm(ctx context.Context, id string) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if overlay.StateOf(user.Updates) != overlay.Pending {
		return nil, apierr.New(apierr.NotAcceptable)
	}
	if err := overlay.Confirm(user, user.Updates); err != nil {
		return nil, apierr.New(apierr.InvalidPayload)
	}
	user.Updates = nil
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Reject drops the pending updates.
func (s *Service) Reject(ctx context.Context, id string) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Updates = nil
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Ban stashes the current status in the user's settings so Unban can
// restore it, then notifies the user.
func (s *Service) Ban(ctx context.Context, id string) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Status == models.UserStatusBanned {
		return nil, apierr.New(apierr.StatusAlreadyAssigned)
	}

	settings, err := stashSetting(user.Settings, bannedStatusKey, string(user.Status))
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, models.UserStatusBanned, settings); err != nil {
		return nil, err
	}

	if err := s.notifications.Create(ctx, &models.UserNotification{
		UserID:  id,
		Type:    models.NotificationUserBanned,
		Message: "Your account has been suspended",
	}); err != nil {
		return nil, err
	}

	user.Status = models.UserStatusBanned
	user.Settings = settings
	return user, nil
}

// Unban restores the status held before the ban, falling back to
// active when nothing was stashed.
func (s *Service) Unban(ctx context.Context, id string) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Status != models.UserStatusBanned {
		return nil, apierr.New(apierr.StatusAlreadyAssigned)
	}

	restored := models.UserStatusActive
	settings, stashed, err := popSetting(user.Settings, bannedStatusKey)
	if err != nil {
		return nil, err
	}
	if stashed != "" {
		restored = models.UserStatus(stashed)
	}
	if err := s.repo.UpdateStatus(ctx, id, restored, settings); err != nil {
		return nil, err
	}

	if err := s.notifications.Create(ctx, &models.UserNotification{
		UserID:  id,
		Type:    models.NotificationUserUnbanned,
		Message: "Your account has been restored",
	}); err != nil {
		return nil, err
	}

	user.Status = restored
	user.Settings = settings
	return user, nil
}

type Stats struct {
	ByStatus  map[string]int64 `json:"byStatus"`
	Investors int64            `json:"investors"`
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	investors, err := s.repo.CountInvestors(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{ByStatus: byStatus, Investors: investors}, nil
}

func (s *Service) Logs(ctx context.Context, q listquery.Params) ([]models.UserLog, int64, error) {
	return s.repo.ListLogs(ctx, q)
}

func stashSetting(settings json.RawMessage, key, value string) (json.RawMessage, error) {
	m := map[string]any{}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &m); err != nil {
			return nil, fmt.Errorf("decode settings: %w", err)
		}
	}
	m[key] = value
	return json.Marshal(m)
}

func popSetting(settings json.RawMessage, key string) (json.RawMessage, string, error) {
	m := map[string]any{}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &m); err != nil {
			return nil, "", fmt.Errorf("decode settings: %w", err)
		}
	}
	value, _ := m[key].(string)
	delete(m, key)
	out, err := json.Marshal(m)
	if err != nil {
		return nil, "", err
	}
	return out, value, nil
}

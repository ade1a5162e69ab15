// Package profiles covers the borrower and investor profile operations:
// review of staged edits, status transitions, qualification and removal.
package profiles

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/investplatform/admin-backend/internal/apierr"
	"github.com/investplatform/admin-backend/internal/listquery"
	"github.com/investplatform/admin-backend/internal/models"
	"github.com/investplatform/admin-backend/internal/overlay"
)

type Repository interface {
	ListByRole(ctx context.Context, role models.ProfileRole, q listquery.Params) ([]models.UserProfile, int64, error)
	GetByID(ctx context.Context, id string) (*models.UserProfile, error)
	UpdateTx(ctx context.Context, profile *models.UserProfile) error
	UpdateStatus(ctx context.Context, id string, status models.ProfileStatus) error
	Delete(ctx context.Context, id string) error
	OutstandingDebt(ctx context.Context, profileID string) (bool, error)
	CountByRole(ctx context.Context, role models.ProfileRole) (int64, error)
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

func (s *Service) List(ctx context.Context, role models.ProfileRole, q listquery.Params) ([]models.UserProfile, int64, error) {
	return s.repo.ListByRole(ctx, role, q)
}

func (s *Service) Get(ctx context.Context, id string) (*models.UserProfile, error) {
	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.New(apierr.NotFound)
		}
		return nil, err
	}
	return profile, nil
}

// Stage merges requested changes into the profile's pending updates.
func (s *Service) Stage(ctx context.Context, id string, changes map[string]any) (*models.UserProfile, error) {
	profile, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	staged, err := overlay.Stage(profile.Updates, changes)
	if err != nil {
		return nil, apierr.New(apierr.InvalidPayload)
	}
	profile.Updates = staged
	if err := s.repo.UpdateTx(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Confirm applies staged edits across the profile and its nested entity
// and entrepreneur accounts, then notifies the owner.
func (s *Service) Confirm(ctx context.Context, id string) (*models.UserProfile, error) {
	profile, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	pending := overlay.StateOf(profile.Updates) == overlay.Pending
	if profile.EntityAccount != nil && overlay.StateOf(profile.EntityAccount.Updates) == overlay.Pending {
		pending = true
	}
	if profile.EntrepreneurAccount != nil && overlay.StateOf(profile.EntrepreneurAccount.Updates) == overlay.Pending {
		pending = true
	}
	if !pending && profile.Status != models.ProfileStatusCreated {
		return nil, apierr.New(apierr.NotAcceptable)
	}

	if err := overlay.Confirm(profile, profile.Updates); err != nil {
		return nil, apierr.New(apierr.InvalidPayload)
	}
	profile.Updates = nil
	if profile.EntityAccount != nil {
		if err := overlay.Confirm(profile.EntityAccount, profile.EntityAccount.Updates); err != nil {
			return nil, apierr.New(apierr.InvalidPayload)
		}
		profile.EntityAccount.Updates = nil
	}
	if profile.EntrepreneurAccount != nil {
		if err := overlay.Confirm(profile.EntrepreneurAccount, profile.EntrepreneurAccount.Updates); err != nil {
			return nil, apierr.New(apierr.InvalidPayload)
		}
		profile.EntrepreneurAccount.Updates = nil
	}
	profile.Status = models.ProfileStatusAccepted

	if err := s.repo.UpdateTx(ctx, profile); err != nil {
		return nil, err
	}

	if err := s.notifications.Create(ctx, &models.UserNotification{
		UserID:  profile.UserID,
		Type:    models.NotificationProfileConfirmed,
		Message: "Your profile has been confirmed",
	}); err != nil {
		return nil, err
	}

	return profile, nil
}

// Reject drops staged edits; a freshly created profile is rejected
// outright.
func (s *Service) Reject(ctx context.Context, id string) (*models.UserProfile, error) {
	profile, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	profile.Updates = nil
	if profile.EntityAccount != nil {
		profile.EntityAccount.Updates = nil
	}
	if profile.EntrepreneurAccount != nil {
		profile.EntrepreneurAccount.Updates = nil
	}
	if profile.Status == models.ProfileStatusCreated {
		profile.Status = models.ProfileStatusRejected
	}

	if err := s.repo.UpdateTx(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *Service) Block(ctx context.Context, id string) error {
	profile, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if profile.Status == models.ProfileStatusBlocked {
		return apierr.New(apierr.StatusAlreadyAssigned)
	}
	return s.repo.UpdateStatus(ctx, id, models.ProfileStatusBlocked)
}

func (s *Service) Unblock(ctx context.Context, id string) error {
	profile, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if profile.Status != models.ProfileStatusBlocked {
		return apierr.New(apierr.StatusAlreadyAssigned)
	}
	return s.repo.UpdateStatus(ctx, id, models.ProfileStatusAccepted)
}

// Remove retires a profile. A borrower with outstanding debt cannot be
// removed; the row is kept with status history rather than deleted.
func (s *Service) Remove(ctx context.Context, id string) error {
	profile, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if profile.Role == models.RoleBorrower {
		indebted, err := s.repo.OutstandingDebt(ctx, id)
		if err != nil {
			return err
		}
		if indebted {
			return apierr.New(apierr.Conflict)
		}
	}
	return s.repo.UpdateStatus(ctx, id, models.ProfileStatusHistory)
}

// SetQualification flips an investor profile's qualification status.
func (s *Service) SetQualification(ctx context.Context, id string, status models.QualificationStatus) (*models.UserProfile, error) {
	profile, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile.Role != models.RoleInvestor {
		return nil, apierr.New(apierr.NotAcceptable)
	}
	if profile.Qualification == status {
		return nil, apierr.New(apierr.StatusAlreadyAssigned)
	}
	profile.Qualification = status
	if err := s.repo.UpdateTx(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *Service) Count(ctx context.Context, role models.ProfileRole) (int64, error) {
	return s.repo.CountByRole(ctx, role)
}

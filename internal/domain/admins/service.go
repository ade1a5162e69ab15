// Package admins manages back-office operator accounts.
package admins

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/investplatform/admin-backend/internal/apierr"
	"github.com/investplatform/admin-backend/internal/auth"
	"github.com/investplatform/admin-backend/internal/listquery"
	"github.com/investplatform/admin-backend/internal/models"
)

type Repository interface {
	List(ctx context.Context, q listquery.Params) ([]models.Admin, int64, error)
	GetByID(ctx context.Context, id string) (*models.Admin, error)
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	Create(ctx context.Context, admin *models.Admin) error
	Update(ctx context.Context, admin *models.Admin) error
	Delete(ctx context.Context, id string) error
	CloseSessionsForAdmin(ctx context.Context, adminID string) error
	ListLogs(ctx context.Context, q listquery.Params) ([]models.AdminLog, int64, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, q listquery.Params) ([]models.Admin, int64, error) {
	return s.repo.List(ctx, q)
}

func (s *Service) Get(ctx context.Context, id string) (*models.Admin, error) {
	admin, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.New(apierr.NotFound)
		}
		return nil, err
	}
	return admin, nil
}

type CreateInput struct {
	Email       string
	Password    string
	Role        string
	Permissions models.Permissions
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Admin, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || len(in.Password) < 8 {
		return nil, apierr.New(apierr.InvalidPayload)
	}
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, apierr.New(apierr.EmailExists)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	admin := &models.Admin{
		Email:        email,
		PasswordHash: hash,
		Role:         in.Role,
		Permissions:  in.Permissions,
		Status:       models.AdminStatusNew,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

type UpdateInput struct {
	Role        *string
	Permissions models.Permissions
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*models.Admin, error) {
	admin, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Role != nil {
		admin.Role = *in.Role
	}
	if in.Permissions != nil {
		admin.Permissions = in.Permissions
	}
	if err := s.repo.Update(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// Block locks the account and closes its open sessions.
func (s *Service) Block(ctx context.Context, id string) (*models.Admin, error) {
	admin, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if admin.Status == models.AdminStatusBlocked {
		return nil, apierr.New(apierr.StatusAlreadyAssigned)
	}
	admin.Status = models.AdminStatusBlocked
	if err := s.repo.Update(ctx, admin); err != nil {
		return nil, err
	}
	if err := s.repo.CloseSessionsForAdmin(ctx, id); err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *Service) Unblock(ctx context.Context, id string) (*models.Admin, error) {
	admin, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if admin.Status != models.AdminStatusBlocked {
		return nil, apierr.New(apierr.StatusAlreadyAssigned)
	}
	admin.Status = models.AdminStatusVerified
	if err := s.repo.Update(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// Delete removes the account after closing its sessions.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.CloseSessionsForAdmin(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) Logs(ctx context.Context, q listquery.Params) ([]models.AdminLog, int64, error) {
	return s.repo.ListLogs(ctx, q)
}

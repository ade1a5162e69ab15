// Package loans holds the back-office operations on loans, investments
// and disbursements.
package loans

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/investplatform/admin-backend/internal/apierr"
	"github.com/investplatform/admin-backend/internal/listquery"
	"github.com/investplatform/admin-backend/internal/models"
)

// validTransitions lists the status changes an operator may apply.
var validTransitions = map[models.LoanStatus][]models.LoanStatus{
	models.LoanStatusDraft:     {models.LoanStatusFormation, models.LoanStatusRepaid},
	models.LoanStatusFormation: {models.LoanStatusAccepted, models.LoanStatusDraft},
	models.LoanStatusAccepted:  {models.LoanStatusActive},
	models.LoanStatusActive:    {models.LoanStatusArrears, models.LoanStatusRepaid, models.LoanStatusDefaulted},
	models.LoanStatusArrears:   {models.LoanStatusActive, models.LoanStatusDefaulted, models.LoanStatusRepaid},
}

type Repository interface {
	List(ctx context.Context, q listquery.Params) ([]models.Loan, int64, error)
	ListByBorrower(ctx context.Context, borrowerID string, q listquery.Params) ([]models.Loan, int64, error)
	GetByID(ctx context.Context, id string) (*models.Loan, error)
	UpdateStatus(ctx context.Context, id string, status models.LoanStatus) error
	UpdateArrearsStatus(ctx context.Context, id, arrearsStatus string) error
	PaymentsWithInvestments(ctx context.Context, loanID string, q listquery.Params) ([]models.Payment, int64, error)
	Stats(ctx context.Context) (map[string]int64, error)
}

type InvestmentRepository interface {
	List(ctx context.Context, q listquery.Params) ([]models.Investment, int64, error)
	ListByUser(ctx context.Context, userID string, q listquery.Params) ([]models.Investment, int64, error)
	GetByID(ctx context.Context, id string) (*models.Investment, error)
}

type NotificationSink interface {
	Create(ctx context.Context, n *models.UserNotification) error
}

type Service struct {
	repo          Repository
	investments   InvestmentRepository
	notifications NotificationSink
}

func NewService(repo Repository, investments InvestmentRepository, notifications NotificationSink) *Service {
	return &Service{repo: repo, investments: investments, notifications: notifications}
}

func (s *Service) List(ctx context.Context, q listquery.Params) ([]models.Loan, int64, error) {
	return s.repo.List(ctx, q)
}

func (s *Service) ListByBorrower(ctx context.Context, borrowerID string, q listquery.Params) ([]models.Loan, int64, error) {
	return s.repo.ListByBorrower(ctx, borrowerID, q)
}

func (s *Service) Get(ctx context.Context, id string) (*models.Loan, error) {
	loan, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.New(apierr.NotFound)
		}
		return nil, err
	}
	return loan, nil
}

// SetStatus applies an operator status change and notifies the
// borrower.
func (s *Service) SetStatus(ctx context.Context, id string, status models.LoanStatus) (*models.Loan, error) {
	loan, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if loan.Status == status {
		return nil, apierr.New(apierr.StatusAlreadyAssigned)
	}
	if !transitionAllowed(loan.Status, status) {
		return nil, apierr.New(apierr.NotAcceptable)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	if err := s.notifications.Create(ctx, &models.UserNotification{
		UserID:  loan.BorrowerID,
		Type:    models.NotificationLoanStatus,
		Message: "Loan status changed to " + string(status),
	}); err != nil {
		return nil, err
	}

	loan.Status = status
	return loan, nil
}

func (s *Service) SetArrearsStatus(ctx context.Context, id, arrearsStatus string) (*models.Loan, error) {
	loan, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if loan.ArrearsStatus == arrearsStatus {
		return nil, apierr.New(apierr.StatusAlreadyAssigned)
	}
	if err := s.repo.UpdateArrearsStatus(ctx, id, arrearsStatus); err != nil {
		return nil, err
	}
	loan.ArrearsStatus = arrearsStatus
	return loan, nil
}

func (s *Service) Payments(ctx context.Context, loanID string, q listquery.Params) ([]models.Payment, int64, error) {
	if _, err := s.Get(ctx, loanID); err != nil {
		return nil, 0, err
	}
	return s.repo.PaymentsWithInvestments(ctx, loanID, q)
}

func (s *Service) Stats(ctx context.Context) (map[string]int64, error) {
	return s.repo.Stats(ctx)
}

func (s *Service) Investments(ctx context.Context, q listquery.Params) ([]models.Investment, int64, error) {
	return s.investments.List(ctx, q)
}

func (s *Service) InvestmentsByUser(ctx context.Context, userID string, q listquery.Params) ([]models.Investment, int64, error) {
	return s.investments.ListByUser(ctx, userID, q)
}

func (s *Service) Investment(ctx context.Context, id string) (*models.Investment, error) {
	investment, err := s.investments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.New(apierr.NotFound)
		}
		return nil, err
	}
	return investment, nil
}

func transitionAllowed(from, to models.LoanStatus) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

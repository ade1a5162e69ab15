package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/investplatform/admin-backend/internal/listquery"
	"github.com/investplatform/admin-backend/internal/models"
)

type LoanRepository struct {
	db *gorm.DB
}

func NewLoanRepository(db *gorm.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

func (r *LoanRepository) List(ctx context.Context, q listquery.Params) ([]models.Loan, int64, error) {
	var count int64
	if err := q.ApplyFilters(r.db.WithContext(ctx).Model(&models.Loan{})).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}
	loans := make([]models.Loan, 0)
	err := q.Apply(r.db.WithContext(ctx).Model(&models.Loan{})).Find(&loans).Error
	if err != nil {
		return nil, 0, err
	}
	return loans, count, nil
}

func (r *LoanRepository) ListByBorrower(ctx context.Context, borrowerID string, q listquery.Params) ([]models.Loan, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Loan{}).Where("borrower_id = ?", borrowerID)
	}
	var count int64
	if err := q.ApplyFilters(base()).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	loans := make([]models.Loan, 0)
	err := q.Apply(base()).Find(&loans).Error
	if err != nil {
		return nil, 0, err
	}
	return loans, count, nil
}

func (r *LoanRepository) GetByID(ctx context.Context, id string) (*models.Loan, error) {
	out := &models.Loan{}
	err := r.db.WithContext(ctx).
		Preload("Investments").
		Preload("Payments").
		First(out, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *LoanRepository) Update(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Save(loan).Error
}

func (r *LoanRepository) UpdateStatus(ctx context.Context, id string, status models.LoanStatus) error {
	return r.db.WithContext(ctx).Model(&models.Loan{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *LoanRepository) UpdateArrearsStatus(ctx context.Context, id, arrearsStatus string) error {
	return r.db.WithContext(ctx).Model(&models.Loan{}).
		Where("id = ?", id).
		Update("arrears_status", arrearsStatus).Error
}

// PaymentsWithInvestments returns the repayment schedule with each
// installment's backing investment preloaded.
func (r *LoanRepository) PaymentsWithInvestments(ctx context.Context, loanID string, q listquery.Params) ([]models.Payment, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Payment{}).Where("loan_id = ?", loanID)
	}
	var count int64
	if err := q.ApplyFilters(base()).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	payments := make([]models.Payment, 0)
	err := q.Apply(base()).Find(&payments).Error
	if err != nil {
		return nil, 0, err
	}
	return payments, count, nil
}

// Stats aggregates loan counts per status.
func (r *LoanRepository) Stats(ctx context.Context) (map[string]int64, error) {
	rows := make([]struct {
		Status string
		Count  int64
	}, 0)
	err := r.db.WithContext(ctx).Model(&models.Loan{}).
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

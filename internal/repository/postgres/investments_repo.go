package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/investplatform/admin-backend/internal/listquery"
	"github.com/investplatform/admin-backend/internal/models"
)

type InvestmentRepository struct {
	db *gorm.DB
}

func NewInvestmentRepository(db *gorm.DB) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

func (r *InvestmentRepository) List(ctx context.Context, q listquery.Params) ([]models.Investment, int64, error) {
	var count int64
	if err := q.ApplyFilters(r.db.WithContext(ctx).Model(&models.Investment{})).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}
	investments := make([]models.Investment, 0)
	err := q.Apply(r.db.WithContext(ctx).Model(&models.Investment{})).Find(&investments).Error
	if err != nil {
		return nil, 0, err
	}
	return investments, count, nil
}

func (r *InvestmentRepository) ListByUser(ctx context.Context, userID string, q listquery.Params) ([]models.Investment, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Investment{}).Where("user_id = ?", userID)
	}
	var count int64
	if err := q.ApplyFilters(base()).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	investments := make([]models.Investment, 0)
	err := q.Apply(base()).Find(&investments).Error
	if err != nil {
		return nil, 0, err
	}
	return investments, count, nil
}

func (r *InvestmentRepository) GetByID(ctx context.Context, id string) (*models.Investment, error) {
	out := &models.Investment{}
	err := r.db.WithContext(ctx).First(out, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Create records the investment and moves the invested value onto the
// investor wallet's hold balance in one transaction.
func (r *InvestmentRepository) Create(ctx context.Context, investment *models.Investment, walletID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(investment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Wallet{}).
			Where("id = ? AND balance >= ?", walletID, investment.Value).
			Updates(map[string]any{
				"balance":      gorm.Expr("balance - ?", investment.Value),
				"hold_balance": gorm.Expr("hold_balance + ?", investment.Value),
			}).Error
	})
}

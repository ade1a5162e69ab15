package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/investplatform/admin-backend/internal/listquery"
	"github.com/investplatform/admin-backend/internal/models"
)

type FinanceRepository struct {
	db *gorm.DB
}

func NewFinanceRepository(db *gorm.DB) *FinanceRepository {
	return &FinanceRepository{db: db}
}

func (r *FinanceRepository) ListDeposits(ctx context.Context, q listquery.Params) ([]models.Deposit, int64, error) {
	var count int64
	if err := q.ApplyFilters(r.db.WithContext(ctx).Model(&models.Deposit{})).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}
	deposits := make([]models.Deposit, 0)
	err := q.Apply(r.db.WithContext(ctx).Model(&models.Deposit{})).Find(&deposits).Error
	if err != nil {
		return nil, 0, err
	}
	return deposits, count, nil
}

func (r *FinanceRepository) GetDeposit(ctx context.Context, id string) (*models.Deposit, error) {
	out := &models.Deposit{}
	err := r.db.WithContext(ctx).
		Preload("BankOperation").
		Preload("Transaction").
		Preload("Wallet").
		First(out, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *FinanceRepository) CreateDeposit(ctx context.Context, deposit *models.Deposit) error {
	return r.db.WithContext(ctx).Create(deposit).Error
}

func (r *FinanceRepository) ListWithdrawals(ctx context.Context, q listquery.Params) ([]models.Withdrawal, int64, error) {
	var count int64
	if err := q.ApplyFilters(r.db.WithContext(ctx).Model(&models.Withdrawal{})).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}
	withdrawals := make([]models.Withdrawal, 0)
	err := q.Apply(r.db.WithContext(ctx).Model(&models.Withdrawal{})).Find(&withdrawals).Error
	if err != nil {
		return nil, 0, err
	}
	return withdrawals, count, nil
}

func (r *FinanceRepository) GetWithdrawal(ctx context.Context, id string) (*models.Withdrawal, error) {
	out := &models.Withdrawal{}
	err := r.db.WithContext(ctx).
		Preload("BankOperation").
		Preload("Transaction").
		Preload("Wallet").
		First(out, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ExecuteWithdrawal settles a pending withdrawal: the status flips, the
// wallet hold is released and the outgoing transaction is posted, all in
// one transaction.
func (r *FinanceRepository) ExecuteWithdrawal(ctx context.Context, w *models.Withdrawal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Withdrawal{}).
			Where("id = ? AND status = ?", w.ID, models.TransferStatusPending).
			Update("status", models.TransferStatusExecuted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		err := tx.Model(&models.Wallet{}).
			Where("id = ? AND hold_balance >= ?", w.WalletID, w.Amount).
			Update("hold_balance", gorm.Expr("hold_balance - ?", w.Amount)).Error
		if err != nil {
			return err
		}
		return tx.Create(&models.Transaction{
			WalletID:     w.WalletID,
			WithdrawalID: &w.ID,
			Amount:       w.Amount,
			Direction:    "out",
		}).Error
	})
}

// RejectWithdrawal returns the held amount to the wallet balance.
func (r *FinanceRepository) RejectWithdrawal(ctx context.Context, w *models.Withdrawal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Withdrawal{}).
			Where("id = ? AND status = ?", w.ID, models.TransferStatusPending).
			Update("status", models.TransferStatusRejected)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.Wallet{}).
			Where("id = ?", w.WalletID).
			Updates(map[string]any{
				"balance":      gorm.Expr("balance + ?", w.Amount),
				"hold_balance": gorm.Expr("hold_balance - ?", w.Amount),
			}).Error
	})
}

func (r *FinanceRepository) ListWallets(ctx context.Context) ([]models.Wallet, error) {
	wallets := make([]models.Wallet, 0)
	err := r.db.WithContext(ctx).Find(&wallets).Error
	if err != nil {
		return nil, err
	}
	return wallets, nil
}

func (r *FinanceRepository) GetWalletByAccount(ctx context.Context, accountNumber string) (*models.Wallet, error) {
	out := &models.Wallet{}
	err := r.db.WithContext(ctx).First(out, "account_number = ?", accountNumber).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListBankOperations pages the beneficiary registry.
func (r *FinanceRepository) ListBankOperations(ctx context.Context, q listquery.Params) ([]models.BankOperation, int64, error) {
	var count int64
	if err := q.ApplyFilters(r.db.WithContext(ctx).Model(&models.BankOperation{})).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}
	ops := make([]models.BankOperation, 0)
	err := q.Apply(r.db.WithContext(ctx).Model(&models.BankOperation{})).Find(&ops).Error
	if err != nil {
		return nil, 0, err
	}
	return ops, count, nil
}

func (r *FinanceRepository) GetBankOperation(ctx context.Context, id string) (*models.BankOperation, error) {
	out := &models.BankOperation{}
	err := r.db.WithContext(ctx).First(out, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

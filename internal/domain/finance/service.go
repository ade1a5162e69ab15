// Package finance covers the money-movement surface of the back office:
// deposits, withdrawal review, the beneficiary registry and the revise
// reconciliation against the banking service.
package finance

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/investplatform/admin-backend/internal/apierr"
	"github.com/investplatform/admin-backend/internal/banking"
	"github.com/investplatform/admin-backend/internal/listquery"
	"github.com/investplatform/admin-backend/internal/models"
)

type Repository interface {
	ListDeposits(ctx context.Context, q listquery.Params) ([]models.Deposit, int64, error)
	GetDeposit(ctx context.Context, id string) (*models.Deposit, error)
	CreateDeposit(ctx context.Context, deposit *models.Deposit) error
	ListWithdrawals(ctx context.Context, q listquery.Params) ([]models.Withdrawal, int64, error)
	GetWithdrawal(ctx context.Context, id string) (*models.Withdrawal, error)
	ExecuteWithdrawal(ctx context.Context, w *models.Withdrawal) error
	RejectWithdrawal(ctx context.Context, w *models.Withdrawal) error
	ListBankOperations(ctx context.Context, q listquery.Params) ([]models.BankOperation, int64, error)
	GetBankOperation(ctx context.Context, id string) (*models.BankOperation, error)
	ListWallets(ctx context.Context) ([]models.Wallet, error)
	GetWalletByAccount(ctx context.Context, accountNumber string) (*models.Wallet, error)
}

type BankingClient interface {
	GetVirtualBalance(ctx context.Context) (*banking.VirtualBalance, error)
	TestDeposit(ctx context.Context, accountNumber string, amount decimal.Decimal) (string, error)
}

type Service struct {
	repo    Repository
	banking BankingClient
}

func NewService(repo Repository, bankingClient BankingClient) *Service {
	return &Service{repo: repo, banking: bankingClient}
}

func (s *Service) Deposits(ctx context.Context, q listquery.Params) ([]models.Deposit, int64, error) {
	return s.repo.ListDeposits(ctx, q)
}

func (s *Service) Deposit(ctx context.Context, id string) (*models.Deposit, error) {
	deposit, err := s.repo.GetDeposit(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.New(apierr.NotFound)
		}
		return nil, err
	}
	return deposit, nil
}

func (s *Service) Withdrawals(ctx context.Context, q listquery.Params) ([]models.Withdrawal, int64, error) {
	return s.repo.ListWithdrawals(ctx, q)
}

func (s *Service) Withdrawal(ctx context.Context, id string) (*models.Withdrawal, error) {
	withdrawal, err := s.repo.GetWithdrawal(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.New(apierr.NotFound)
		}
		return nil, err
	}
	return withdrawal, nil
}

// ApproveWithdrawal settles a pending withdrawal.
func (s *Service) ApproveWithdrawal(ctx context.Context, id string) (*models.Withdrawal, error) {
	withdrawal, err := s.Withdrawal(ctx, id)
	if err != nil {
		return nil, err
	}
	if withdrawal.Status != models.TransferStatusPending {
		return nil, apierr.New(apierr.StatusAlreadyAssigned)
	}
	if err := s.repo.ExecuteWithdrawal(ctx, withdrawal); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.New(apierr.StatusAlreadyAssigned)
		}
		return nil, err
	}
	withdrawal.Status = models.TransferStatusExecuted
	return withdrawal, nil
}

// RejectWithdrawal returns the held amount to the wallet.
func (s *Service) RejectWithdrawal(ctx context.Context, id string) (*models.Withdrawal, error) {
	withdrawal, err := s.Withdrawal(ctx, id)
	if err != nil {
		return nil, err
	}
	if withdrawal.Status != models.TransferStatusPending {
		return nil, apierr.New(apierr.StatusAlreadyAssigned)
	}
	if err := s.repo.RejectWithdrawal(ctx, withdrawal); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.New(apierr.StatusAlreadyAssigned)
		}
		return nil, err
	}
	withdrawal.Status = models.TransferStatusRejected
	return withdrawal, nil
}

func (s *Service) Registry(ctx context.Context, q listquery.Params) ([]models.BankOperation, int64, error) {
	return s.repo.ListBankOperations(ctx, q)
}

func (s *Service) RegistryEntry(ctx context.Context, id string) (*models.BankOperation, error) {
	op, err := s.repo.GetBankOperation(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.New(apierr.NotFound)
		}
		return nil, err
	}
	return op, nil
}

// ReviseReport compares the wallet totals in the database against the
// banking service's virtual balance.
type ReviseReport struct {
	Wallets     []models.Wallet         `json:"-"`
	Balance     decimal.Decimal         `json:"balance"`
	HoldBalance decimal.Decimal         `json:"holdBalance"`
	Accounts    int                     `json:"accounts"`
	Virtual     *banking.VirtualBalance `json:"virtual"`
	BalanceDiff decimal.Decimal         `json:"balanceDiff"`
	HoldDiff    decimal.Decimal         `json:"holdDiff"`
	Reconciled  bool                    `json:"reconciled"`
}

func (s *Service) Revise(ctx context.Context) (*ReviseReport, error) {
	wallets, err := s.repo.ListWallets(ctx)
	if err != nil {
		return nil, err
	}
	virtual, err := s.banking.GetVirtualBalance(ctx)
	if err != nil {
		return nil, err
	}

	balance, hold := decimal.Zero, decimal.Zero
	for _, w := range wallets {
		balance = balance.Add(w.Balance)
		hold = hold.Add(w.HoldBalance)
	}
	balanceDiff := balance.Sub(virtual.Balance)
	holdDiff := hold.Sub(virtual.HoldBalance)

	return &ReviseReport{
		Wallets:     wallets,
		Balance:     balance,
		HoldBalance: hold,
		Accounts:    len(wallets),
		Virtual:     virtual,
		BalanceDiff: balanceDiff,
		HoldDiff:    holdDiff,
		Reconciled:  balanceDiff.IsZero() && holdDiff.IsZero(),
	}, nil
}

// TestDeposit asks the banking service to credit a wallet and records
// the pending deposit row that the settlement callback will execute.
func (s *Service) TestDeposit(ctx context.Context, accountNumber string, amount decimal.Decimal) (*models.Deposit, error) {
	if amount.IsNegative() || amount.IsZero() {
		return nil, apierr.New(apierr.InvalidPayload)
	}
	wallet, err := s.repo.GetWalletByAccount(ctx, accountNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.New(apierr.NotFound)
		}
		return nil, err
	}
	if _, err := s.banking.TestDeposit(ctx, accountNumber, amount); err != nil {
		return nil, err
	}
	deposit := &models.Deposit{
		WalletID: wallet.ID,
		Amount:   amount,
		Status:   models.TransferStatusPending,
	}
	if err := s.repo.CreateDeposit(ctx, deposit); err != nil {
		return nil, err
	}
	return deposit, nil
}

// Package history reads the unified ledger views: per-operation
// projections of deposits, withdrawals, investments, payments, loan
// issues and fees, unioned into one read model per audience.
package history

import (
	"context"
	"encoding/json"
	"time"
)

// Audience selects which union view a query reads.
type Audience string

const (
	AudienceInvestor Audience = "investor"
	AudienceBorrower Audience = "borrower"
)

// Operation type literals emitted by the views.
const (
	OpDeposit         = "deposit"
	OpWithdraw        = "withdraw"
	OpInvestment      = "investment"
	OpInterestPayment = "interestPayment"
	OpMainDutyPayment = "mainDutyPayment"
	OpLoanIssue       = "loanIssue"
	OpFee             = "fee"
)

// Entry is one homogeneous ledger row. Exactly one of Income/Expense is
// set. AdditionalData is a JSON payload whose shape depends on
// OperationType; callers must branch on OperationType before
// interpreting it.
type Entry struct {
	UserID         string          `gorm:"column:user_id" json:"userId"`
	ProfileType    string          `gorm:"column:profile_type" json:"profileType"`
	Date           time.Time       `gorm:"column:date" json:"date"`
	OperationType  string          `gorm:"column:operation_type" json:"operationType"`
	Income         *string         `gorm:"column:income" json:"income"`
	Expense        *string         `gorm:"column:expense" json:"expense"`
	AdditionalData json.RawMessage `gorm:"column:additional_data" json:"additionalData"`
	RowID          string          `gorm:"column:row_id" json:"-"`
}

// Repository reads one audience's ledger for one user, newest first.
type Repository interface {
	List(ctx context.Context, audience Audience, userID string, offset, limit int) ([]Entry, int64, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) InvestorHistory(ctx context.Context, userID string, offset, limit int) ([]Entry, int64, error) {
	return s.repo.List(ctx, AudienceInvestor, userID, offset, limit)
}

func (s *Service) BorrowerHistory(ctx context.Context, userID string, offset, limit int) ([]Entry, int64, error) {
	return s.repo.List(ctx, AudienceBorrower, userID, offset, limit)
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LoanStatus string

const (
	LoanStatusDraft     LoanStatus = "draft"
	LoanStatusFormation LoanStatus = "formation"
	LoanStatusAccepted  LoanStatus = "accepted"
	LoanStatusActive    LoanStatus = "active"
	LoanStatusRepaid    LoanStatus = "repaid"
	LoanStatusDefaulted LoanStatus = "defaulted"
	LoanStatusArrears   LoanStatus = "arrears"
)

// Loan is a borrower profile's funding request. Investments accumulate
// toward Amount; Payments are the repayment schedule.
type Loan struct {
	ID                     string          `gorm:"type:uuid;primaryKey" json:"id"`
	ProfileID              string          `gorm:"type:uuid;index;not null" json:"profileId"`
	BorrowerID             string          `gorm:"type:uuid;index;not null" json:"borrowerId"`
	Name                   string          `gorm:"size:255" json:"name"`
	ContractNumber         string          `gorm:"size:64;index" json:"contractNumber"`
	ConclusionContractDate *time.Time      `json:"conclusionContractDate"`
	Amount                 decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	InterestRate           decimal.Decimal `gorm:"type:numeric(6,3);not null" json:"interestRate"`
	TermMonths             int             `gorm:"not null" json:"termMonths"`
	Status                 LoanStatus      `gorm:"size:32;index;not null;default:draft" json:"status"`
	ArrearsStatus          string          `gorm:"size:32" json:"arrearsStatus"`
	CreatedAt              time.Time       `json:"createdAt"`
	UpdatedAt              time.Time       `json:"updatedAt"`

	Investments []Investment `gorm:"foreignKey:LoanID" json:"investments,omitempty"`
	Payments    []Payment    `gorm:"foreignKey:LoanID" json:"payments,omitempty"`
}

func (l *Loan) BeforeCreate(_ *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// Investment is an investor user's stake in a loan.
type Investment struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	LoanID      string          `gorm:"type:uuid;index;not null" json:"loanId"`
	UserID      string          `gorm:"type:uuid;index;not null" json:"userId"`
	ProfileType string          `gorm:"size:64" json:"profileType"`
	Value       decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"value"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (i *Investment) BeforeCreate(_ *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusExecuted PaymentStatus = "executed"
)

// Payment is one scheduled installment: Percent is the interest part,
// Duty the principal part.
type Payment struct {
	ID           string          `gorm:"type:uuid;primaryKey" json:"id"`
	LoanID       string          `gorm:"type:uuid;index;not null" json:"loanId"`
	InvestmentID string          `gorm:"type:uuid;index" json:"investmentId"`
	Percent      decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"percent"`
	Duty         decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"duty"`
	PaymentDate  time.Time       `gorm:"index" json:"paymentDate"`
	Status       PaymentStatus   `gorm:"size:32;index;not null;default:pending" json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func (p *Payment) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type LoanIssueStatus string

const (
	LoanIssueStatusPending  LoanIssueStatus = "pending"
	LoanIssueStatusAccepted LoanIssueStatus = "accepted"
	LoanIssueStatusRejected LoanIssueStatus = "rejected"
)

// LoanIssue records the disbursement of a fully funded loan to the
// borrower.
type LoanIssue struct {
	ID        string          `gorm:"type:uuid;primaryKey" json:"id"`
	LoanID    string          `gorm:"type:uuid;uniqueIndex;not null" json:"loanId"`
	Status    LoanIssueStatus `gorm:"size:32;index;not null;default:pending" json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (li *LoanIssue) BeforeCreate(_ *gorm.DB) error {
	if li.ID == "" {
		li.ID = uuid.NewString()
	}
	return nil
}

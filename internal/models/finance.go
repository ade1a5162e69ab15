package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransferStatus string

const (
	TransferStatusPending  TransferStatus = "pending"
	TransferStatusExecuted TransferStatus = "executed"
	TransferStatusRejected TransferStatus = "rejected"
)

// Deposit is money entering a wallet from an external bank account.
type Deposit struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	WalletID    string          `gorm:"type:uuid;index;not null" json:"walletId"`
	Amount      decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	Status      TransferStatus  `gorm:"size:32;index;not null;default:pending" json:"status"`
	RequestData json.RawMessage `gorm:"type:jsonb" json:"requestData,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`

	BankOperation *BankOperation `gorm:"foreignKey:DepositID" json:"bankOperation,omitempty"`
	Transaction   *Transaction   `gorm:"foreignKey:DepositID" json:"transaction,omitempty"`
	Wallet        *Wallet        `gorm:"foreignKey:WalletID" json:"wallet,omitempty"`
}

func (d *Deposit) BeforeCreate(_ *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// Withdrawal is money leaving a wallet to an external bank account.
type Withdrawal struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	WalletID    string          `gorm:"type:uuid;index;not null" json:"walletId"`
	Amount      decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	Status      TransferStatus  `gorm:"size:32;index;not null;default:pending" json:"status"`
	RequestData json.RawMessage `gorm:"type:jsonb" json:"requestData,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`

	BankOperation *BankOperation `gorm:"foreignKey:WithdrawalID" json:"bankOperation,omitempty"`
	Transaction   *Transaction   `gorm:"foreignKey:WithdrawalID" json:"transaction,omitempty"`
	Wallet        *Wallet        `gorm:"foreignKey:WalletID" json:"wallet,omitempty"`
}

func (w *Withdrawal) BeforeCreate(_ *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

// BankOperation mirrors one call against the external banking API, for
// deposits, withdrawals and beneficiary registry entries.
type BankOperation struct {
	ID           string          `gorm:"type:uuid;primaryKey" json:"id"`
	DepositID    *string         `gorm:"type:uuid;index" json:"depositId,omitempty"`
	WithdrawalID *string         `gorm:"type:uuid;index" json:"withdrawalId,omitempty"`
	Type         string          `gorm:"size:64;index" json:"type"`
	Status       string          `gorm:"size:32;index" json:"status"`
	CallbackData json.RawMessage `gorm:"type:jsonb" json:"callbackData,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func (b *BankOperation) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// Transaction is the internal posting applied to a wallet when a
// deposit or withdrawal settles.
type Transaction struct {
	ID           string          `gorm:"type:uuid;primaryKey" json:"id"`
	WalletID     string          `gorm:"type:uuid;index;not null" json:"walletId"`
	DepositID    *string         `gorm:"type:uuid;index" json:"depositId,omitempty"`
	WithdrawalID *string         `gorm:"type:uuid;index" json:"withdrawalId,omitempty"`
	Amount       decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	Direction    string          `gorm:"size:8;not null" json:"direction"` // in | out
	CreatedAt    time.Time       `json:"createdAt"`
}

func (t *Transaction) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Fee is a platform commission charged to a user.
type Fee struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string          `gorm:"type:uuid;index;not null" json:"userId"`
	ProfileType string          `gorm:"size:64" json:"profileType"`
	Amount      decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func (f *Fee) BeforeCreate(_ *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

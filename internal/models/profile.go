package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProfileRole string

const (
	RoleBorrower ProfileRole = "borrower"
	RoleInvestor ProfileRole = "investor"
)

type ProfileKind string

const (
	KindIndividual   ProfileKind = "individual"
	KindEntrepreneur ProfileKind = "entrepreneur"
	KindEntity       ProfileKind = "entity"
)

type ProfileStatus string

const (
	ProfileStatusCreated  ProfileStatus = "created"
	ProfileStatusAccepted ProfileStatus = "accepted"
	ProfileStatusRejected ProfileStatus = "rejected"
	ProfileStatusBlocked  ProfileStatus = "blocked"
	ProfileStatusHistory  ProfileStatus = "history"
)

type QualificationStatus string

const (
	QualificationNone      QualificationStatus = "none"
	QualificationRequested QualificationStatus = "requested"
	QualificationQualified QualificationStatus = "qualified"
)

// UserProfile is a role-and-type-specific account owned by a User. Each
// profile owns a wallet; entity and entrepreneur profiles additionally
// own the matching account record.
type UserProfile struct {
	ID            string              `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        string              `gorm:"type:uuid;index;not null" json:"userId"`
	WalletID      string              `gorm:"type:uuid;index" json:"walletId"`
	Role          ProfileRole         `gorm:"size:32;index;not null" json:"role"`
	Type          ProfileKind         `gorm:"size:32;index;not null" json:"type"`
	Status        ProfileStatus       `gorm:"size:32;index;not null;default:created" json:"status"`
	Qualification QualificationStatus `gorm:"size:32;not null;default:none" json:"qualification"`
	Email         string              `gorm:"size:255" json:"email"`
	Phone         string              `gorm:"size:32" json:"phone"`
	Updates       json.RawMessage     `gorm:"type:jsonb" json:"updates,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`

	Wallet              *Wallet              `gorm:"foreignKey:WalletID" json:"wallet,omitempty"`
	EntityAccount       *EntityAccount       `gorm:"foreignKey:ProfileID" json:"entityAccount,omitempty"`
	EntrepreneurAccount *EntrepreneurAccount `gorm:"foreignKey:ProfileID" json:"entrepreneurAccount,omitempty"`
}

func (p *UserProfile) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ProfileType is the combined role_type discriminator used by the
// ledger views, e.g. "investor_individual".
func (p *UserProfile) ProfileType() string {
	return string(p.Role) + "_" + string(p.Type)
}

// Wallet holds a profile's money. Balance moves only through deposits,
// withdrawals, investments and payments.
type Wallet struct {
	ID            string          `gorm:"type:uuid;primaryKey" json:"id"`
	AccountNumber string          `gorm:"size:64;uniqueIndex" json:"accountNumber"`
	Balance       decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"balance"`
	HoldBalance   decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"holdBalance"`
	Requisites    json.RawMessage `gorm:"type:jsonb" json:"requisites,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (w *Wallet) BeforeCreate(_ *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

// EntityAccount describes a legal-entity profile.
type EntityAccount struct {
	ID        string          `gorm:"type:uuid;primaryKey" json:"id"`
	ProfileID string          `gorm:"type:uuid;uniqueIndex;not null" json:"profileId"`
	Name      string          `gorm:"size:255" json:"name"`
	OGRN      string          `gorm:"column:ogrn;size:32" json:"ogrn"`
	KPP       string          `gorm:"column:kpp;size:32" json:"kpp"`
	Updates   json.RawMessage `gorm:"type:jsonb" json:"updates,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (a *EntityAccount) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// EntrepreneurAccount describes a sole-proprietor profile.
type EntrepreneurAccount struct {
	ID        string          `gorm:"type:uuid;primaryKey" json:"id"`
	ProfileID string          `gorm:"type:uuid;uniqueIndex;not null" json:"profileId"`
	OGRNIP    string          `gorm:"column:ogrnip;size:32" json:"ogrnip"`
	Updates   json.RawMessage `gorm:"type:jsonb" json:"updates,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (a *EntrepreneurAccount) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

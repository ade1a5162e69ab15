package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusVerified UserStatus = "verified"
	UserStatusBanned   UserStatus = "banned"
)

// User is an individual identity on the platform. Staged edits live in
// Updates until an administrator confirms them; Settings carries loose
// per-user flags such as the status held before a ban.
type User struct {
	ID         string          `gorm:"type:uuid;primaryKey" json:"id"`
	Email      string          `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Phone      string          `gorm:"size:32" json:"phone"`
	FirstName  string          `gorm:"size:128" json:"firstName"`
	MiddleName string          `gorm:"size:128" json:"middleName"`
	LastName   string          `gorm:"size:128" json:"lastName"`
	Status     UserStatus      `gorm:"size:32;index;not null;default:active" json:"status"`
	Updates    json.RawMessage `gorm:"type:jsonb" json:"updates,omitempty"`
	Settings   json.RawMessage `gorm:"type:jsonb" json:"settings,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`

	Profiles []UserProfile `gorm:"foreignKey:UserID" json:"profiles,omitempty"`
	Document *UserDocument `gorm:"foreignKey:UserID" json:"document,omitempty"`
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// UserDocument holds identity paperwork; like the owner it stages edits
// in Updates.
type UserDocument struct {
	ID             string          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         string          `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	TIN            string          `gorm:"column:tin;size:32" json:"tin"`
	PassportSeries string          `gorm:"size:16" json:"passportSeries"`
	PassportNumber string          `gorm:"size:16" json:"passportNumber"`
	Updates        json.RawMessage `gorm:"type:jsonb" json:"updates,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func (d *UserDocument) BeforeCreate(_ *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// UserLog is one audit row ingested from the logging queue.
type UserLog struct {
	ID        string          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string          `gorm:"type:uuid;index" json:"userId"`
	Action    string          `gorm:"size:128;not null" json:"action"`
	IP        string          `gorm:"size:64" json:"ip"`
	Payload   json.RawMessage `gorm:"type:jsonb" json:"payload,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

func (l *UserLog) BeforeCreate(_ *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

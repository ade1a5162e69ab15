package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationUserBanned       NotificationType = "userBanned"
	NotificationUserUnbanned     NotificationType = "userUnbanned"
	NotificationProfileConfirmed NotificationType = "profileConfirmed"
	NotificationLoanStatus       NotificationType = "loanStatus"
	NotificationBroadcast        NotificationType = "broadcast"
)

type OutboxStatus string

const (
	OutboxStatusPending OutboxStatus = "pending"
	OutboxStatusDone    OutboxStatus = "done"
	OutboxStatusFailed  OutboxStatus = "failed"
)

// UserNotification is a message for a platform user. Rows are written in
// the same transaction as the action that caused them and dispatched to
// the message queue by the worker (outbox pattern).
type UserNotification struct {
	ID          string           `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string           `gorm:"type:uuid;index;not null" json:"userId"`
	Type        NotificationType `gorm:"size:64;index;not null" json:"type"`
	Message     string           `gorm:"type:text" json:"message"`
	Data        json.RawMessage  `gorm:"type:jsonb" json:"data,omitempty"`
	Read        bool             `gorm:"not null;default:false" json:"read"`
	Outbox      OutboxStatus     `gorm:"size:32;index;not null;default:pending" json:"-"`
	Attempts    int              `gorm:"not null;default:0" json:"-"`
	LastError   string           `gorm:"size:512" json:"-"`
	AvailableAt time.Time        `gorm:"index" json:"-"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

func (n *UserNotification) BeforeCreate(_ *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// AdminNotification is a back-office alert shown to operators and pushed
// over the realtime channel.
type AdminNotification struct {
	ID        string          `gorm:"type:uuid;primaryKey" json:"id"`
	AdminID   *string         `gorm:"type:uuid;index" json:"adminId,omitempty"` // nil means every operator
	Resource  string          `gorm:"size:64;index" json:"resource"`
	Message   string          `gorm:"type:text" json:"message"`
	Data      json.RawMessage `gorm:"type:jsonb" json:"data,omitempty"`
	Read      bool            `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (n *AdminNotification) BeforeCreate(_ *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

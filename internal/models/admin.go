package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminStatus string

const (
	AdminStatusNew      AdminStatus = "new"
	AdminStatusVerified AdminStatus = "verified"
	AdminStatusBlocked  AdminStatus = "blocked"
)

type PermissionLevel string

const (
	PermissionNone  PermissionLevel = "none"
	PermissionRead  PermissionLevel = "read"
	PermissionWrite PermissionLevel = "write"
)

// Permissions maps a resource key (users, loans, deposits, ...) to the
// level an admin role grants on it.
type Permissions map[string]PermissionLevel

// Allows reports whether the map grants at least min on resource.
func (p Permissions) Allows(resource string, min PermissionLevel) bool {
	level, ok := p[resource]
	if !ok {
		return false
	}
	switch min {
	case PermissionRead:
		return level == PermissionRead || level == PermissionWrite
	case PermissionWrite:
		return level == PermissionWrite
	default:
		return true
	}
}

// Admin is a back-office operator. The operator identity model is fully
// separate from platform users.
type Admin struct {
	ID           string      `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string      `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string      `gorm:"size:255;not null" json:"-"`
	Role         string      `gorm:"size:64;not null" json:"role"`
	Permissions  Permissions `gorm:"serializer:json;type:jsonb" json:"permissions"`
	TOTPSecret   string      `gorm:"column:totp_secret;size:128" json:"-"`
	TOTPEnabled  bool        `gorm:"column:totp_enabled;not null;default:false" json:"totpEnabled"`
	Status       AdminStatus `gorm:"size:32;index;not null;default:new" json:"status"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func (a *Admin) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

type SessionStatus string

const (
	SessionStatusActive SessionStatus = "active"
	SessionStatusClosed SessionStatus = "closed"
)

// AdminSession binds a refresh token (stored hashed) to one login.
type AdminSession struct {
	ID               string        `gorm:"type:uuid;primaryKey" json:"id"`
	AdminID          string        `gorm:"type:uuid;index;not null" json:"adminId"`
	RefreshTokenHash string        `gorm:"size:128" json:"-"`
	IP               string        `gorm:"size:64" json:"ip"`
	UserAgent        string        `gorm:"size:255" json:"userAgent"`
	Status           SessionStatus `gorm:"size:32;index;not null;default:active" json:"status"`
	ExpiresAt        time.Time     `json:"expiresAt"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

func (s *AdminSession) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// AdminLog is one audit row for an operator action.
type AdminLog struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	AdminID   string    `gorm:"type:uuid;index" json:"adminId"`
	Action    string    `gorm:"size:128;not null" json:"action"`
	IP        string    `gorm:"size:64" json:"ip"`
	CreatedAt time.Time `json:"createdAt"`
}

func (l *AdminLog) BeforeCreate(_ *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

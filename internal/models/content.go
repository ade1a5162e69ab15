package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupportStatus string

const (
	SupportOpen     SupportStatus = "open"
	SupportAnswered SupportStatus = "answered"
	SupportClosed   SupportStatus = "closed"
)

// SupportRequest is a user support ticket with threaded replies.
type SupportRequest struct {
	ID        string        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string        `gorm:"type:uuid;index" json:"userId"`
	Email     string        `gorm:"size:255" json:"email"`
	Subject   string        `gorm:"size:255" json:"subject"`
	Message   string        `gorm:"type:text" json:"message"`
	Status    SupportStatus `gorm:"size:32;index;not null;default:open" json:"status"`
	FileID    *string       `gorm:"type:uuid" json:"fileId,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`

	User    *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Replies []SupportReply `gorm:"foreignKey:RequestID" json:"replies,omitempty"`
}

func (s *SupportRequest) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

type SupportReply struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	RequestID string    `gorm:"type:uuid;index;not null" json:"requestId"`
	AdminID   string    `gorm:"type:uuid" json:"adminId"`
	Message   string    `gorm:"type:text" json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r *SupportReply) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Question is a published FAQ entry.
type Question struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Answer    string    `gorm:"type:text" json:"answer"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (q *Question) BeforeCreate(_ *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

// News is a published platform announcement.
type News struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Body      string    `gorm:"type:text" json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (n *News) BeforeCreate(_ *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// File is stored object metadata; the bytes live in external storage.
type File struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	MimeType  string    `gorm:"size:128" json:"mimeType"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

func (f *File) BeforeCreate(_ *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

const (
	DocumentKindDocument = "document"
	DocumentKindTemplate = "template"
)

// PlatformDocument is a published legal/template document of the
// platform itself.
type PlatformDocument struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	FileID    *string   `gorm:"type:uuid" json:"fileId,omitempty"`
	Kind      string    `gorm:"size:64;index" json:"kind"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (d *PlatformDocument) BeforeCreate(_ *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// Setting is one key of the platform key-value configuration.
type Setting struct {
	Key       string          `gorm:"primaryKey;size:128" json:"key"`
	Value     json.RawMessage `gorm:"type:jsonb" json:"value"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

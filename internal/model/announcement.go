package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status is the moderation state of an announcement.
type Status string

const (
	// StatusDraft marks an announcement that has not been submitted for review.
	StatusDraft Status = "draft"
	// StatusPending marks an announcement awaiting review. Default at creation.
	StatusPending Status = "pending"
	// StatusApproved marks an announcement cleared by moderation.
	StatusApproved Status = "approved"
	// StatusRejected marks an announcement refused by moderation.
	StatusRejected Status = "rejected"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Announcement represents a community-submitted post. OwnerID never changes
// after creation.
type Announcement struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Status      Status    `json:"status" gorm:"size:16;not null;default:'pending';index"`
	OwnerID     uuid.UUID `json:"owner_id" gorm:"type:char(36);not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID and default status before creating the record.
func (a *Announcement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = StatusPending
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLog is an append-only record of an admin mutation. Rows are only
// ever inserted.
type AuditLog struct {
	ID         uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	ActorEmail string    `gorm:"size:100;not null" json:"actor_email"`
	Action     string    `gorm:"size:50;not null" json:"action"`
	TargetID   string    `gorm:"size:36" json:"target_id"`
	Detail     string    `gorm:"type:text" json:"detail,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

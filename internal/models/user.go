package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OAuth-provisioned accounts carry a provider marker and an empty password
// hash. The empty hash never compares successfully against any supplied
// password, so provider accounts cannot be logged into with credentials.
const ProviderGoogle = "google"

type User struct {
	ID                uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"_id"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	Email             string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash      string     `gorm:"not null;default:''" json:"-"`
	Provider          string     `gorm:"size:20" json:"-"`
	IsVerified        bool       `gorm:"not null;default:false" json:"isVerified"`
	VerificationToken string     `gorm:"index" json:"-"`
	ResetToken        string     `gorm:"index" json:"-"`
	ResetTokenExpiry  *time.Time `json:"-"`
	LastLogin         *time.Time `json:"lastLogin,omitempty"`
	LoginCount        int        `gorm:"not null;default:0" json:"loginCount"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// HasUsablePassword reports whether the account can authenticate with a
// password at all. Provider-created accounts cannot.
func (u *User) HasUsablePassword() bool {
	return u.PasswordHash != ""
}

package api

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/myportfolify/backend/internal/models"
)

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

// PublicUser is the subset of account fields returned to clients.
type PublicUser struct {
	ID         uuid.UUID `json:"_id"`
	Email      string    `json:"email"`
	IsVerified bool      `json:"isVerified"`
}

func toPublicUser(u *models.User) PublicUser {
	return PublicUser{
		ID:         u.ID,
		Email:      u.Email,
		IsVerified: u.IsVerified,
	}
}

type CreateProfileRequest struct {
	Username string `json:"username" binding:"required"`
}

type UpdateProfileRequest struct {
	Profile models.ProfileDetails `json:"profile"`
}

type UpdateTemplateRequest struct {
	Template string `json:"template" binding:"required"`
}

// AdminActionRequest is the admin dispatch envelope. The action tag selects
// which typed payload Data is decoded into; unknown tags are rejected.
type AdminActionRequest struct {
	Action string          `json:"action" binding:"required"`
	Data   json.RawMessage `json:"data"`
}

type AdminResetPasswordData struct {
	Password string `json:"password" binding:"required,min=6"`
}

type AdminUpdateEmailData struct {
	Email string `json:"email" binding:"required,email"`
}

type AdminUpdateProfileData struct {
	Profile models.ProfileDetails `json:"profile"`
}

type AdminFeatureProjectData struct {
	ProjectID uuid.UUID `json:"projectId" binding:"required"`
	Featured  bool      `json:"featured"`
}

type AdminTransferOwnershipData struct {
	UserID uuid.UUID `json:"userId" binding:"required"`
}

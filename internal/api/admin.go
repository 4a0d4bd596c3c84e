package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/myportfolify/backend/internal/service"
)

// AdminHandler exposes the privileged management surface. Routes are mounted
// behind the auth middleware plus the admin allow-list check.
type AdminHandler struct {
	admin  *service.AdminService
	logger *zap.Logger
}

func NewAdminHandler(admin *service.AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		admin:  admin,
		logger: logger,
	}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	stats, err := h.admin.ListUsersWithStats(c.Request.Context())
	if err != nil {
		internalError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// UserAction dispatches one typed action against a user account.
func (h *AdminHandler) UserAction(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	var req AdminActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	actor := currentEmail(c)
	ctx := c.Request.Context()

	switch req.Action {
	case "delete":
		err = h.admin.DeleteUser(ctx, actor, userID)

	case "verify":
		err = h.admin.VerifyUser(ctx, actor, userID)

	case "reset-password":
		var data AdminResetPasswordData
		if err := json.Unmarshal(req.Data, &data); err != nil || len(data.Password) < 6 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid action data"})
			return
		}
		err = h.admin.ResetUserPassword(ctx, actor, userID, data.Password)

	case "update-email":
		var data AdminUpdateEmailData
		if err := json.Unmarshal(req.Data, &data); err != nil || data.Email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid action data"})
			return
		}
		err = h.admin.UpdateUserEmail(ctx, actor, userID, strings.ToLower(data.Email))

	case "impersonate":
		tok, impErr := h.admin.Impersonate(ctx, actor, userID)
		if impErr != nil {
			h.adminError(c, impErr)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Impersonation session issued", "token": tok})
		return

	default:
		err = service.ErrInvalidAction
	}

	if err != nil {
		h.adminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Action completed"})
}

// ProfileAction dispatches one typed action against a profile.
func (h *AdminHandler) ProfileAction(c *gin.Context) {
	profileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Profile not found"})
		return
	}

	var req AdminActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	actor := currentEmail(c)
	ctx := c.Request.Context()

	switch req.Action {
	case "delete":
		err = h.admin.DeleteProfile(ctx, actor, profileID)

	case "update":
		var data AdminUpdateProfileData
		if err := json.Unmarshal(req.Data, &data); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid action data"})
			return
		}
		err = h.admin.UpdateProfileDetails(ctx, actor, profileID, data.Profile)

	case "feature-project":
		var data AdminFeatureProjectData
		if err := json.Unmarshal(req.Data, &data); err != nil || data.ProjectID == uuid.Nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid action data"})
			return
		}
		err = h.admin.FeatureProject(ctx, actor, profileID, data.ProjectID, data.Featured)

	case "transfer-ownership":
		var data AdminTransferOwnershipData
		if err := json.Unmarshal(req.Data, &data); err != nil || data.UserID == uuid.Nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid action data"})
			return
		}
		err = h.admin.TransferOwnership(ctx, actor, profileID, data.UserID)

	default:
		err = service.ErrInvalidAction
	}

	if err != nil {
		h.adminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Action completed"})
}

func (h *AdminHandler) adminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
	case errors.Is(err, service.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Profile not found"})
	case errors.Is(err, service.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Project not found"})
	case errors.Is(err, service.ErrUserExists):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email already in use"})
	case errors.Is(err, service.ErrProfileExists):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Target user already has a profile"})
	case errors.Is(err, service.ErrInvalidAction):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Unknown action"})
	case errors.Is(err, service.ErrImpersonationDisabled):
		c.JSON(http.StatusForbidden, gin.H{"message": "Impersonation is disabled"})
	default:
		internalError(c, h.logger, err)
	}
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/myportfolify/backend/internal/middleware"
)

// internalError logs the underlying cause and returns a generic message so
// database and mail failures never leak internals to the caller.
func internalError(c *gin.Context, logger *zap.Logger, err error) {
	logger.Error("request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}

// currentUserID returns the identity attached by the auth middleware.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(middleware.ContextKeyUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func currentEmail(c *gin.Context) string {
	v, _ := c.Get(middleware.ContextKeyEmail)
	s, _ := v.(string)
	return s
}

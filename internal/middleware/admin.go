package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/myportfolify/backend/config"
)

// RequireAdmin gates a route group on the configured admin allow-list. It
// must run after AuthMiddleware, which resolves the identity.
func RequireAdmin(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		emailVal, exists := c.Get(ContextKeyEmail)
		email, _ := emailVal.(string)
		if !exists || email == "" || !cfg.IsAdminEmail(email) {
			c.JSON(http.StatusForbidden, gin.H{"message": "Admin access required"})
			c.Abort()
			return
		}

		c.Next()
	}
}

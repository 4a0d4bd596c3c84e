package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/myportfolify/backend/internal/types"
)

// Context keys set by the auth middleware.
const (
	ContextKeyUserID = "user_id"
	ContextKeyEmail  = "email"
	ContextKeyToken  = "session_token"
)

// SessionVerifier resolves a bearer credential to identity claims.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*types.TokenClaims, error)
}

// AuthMiddleware extracts the bearer token and attaches the resolved identity
// to the request context. A missing header is 401; a present but invalid or
// expired token is 403.
func AuthMiddleware(verifier SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Authorization header missing"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := verifier.Verify(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"message": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyEmail, claims.Email)
		c.Set(ContextKeyToken, parts[1])
		c.Next()
	}
}

// BearerToken returns the raw credential extracted by AuthMiddleware.
func BearerToken(c *gin.Context) string {
	tok, _ := c.Get(ContextKeyToken)
	s, _ := tok.(string)
	return s
}

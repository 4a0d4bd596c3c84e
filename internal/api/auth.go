package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/myportfolify/backend/config"
	"github.com/myportfolify/backend/internal/middleware"
	"github.com/myportfolify/backend/internal/service"
	"github.com/myportfolify/backend/internal/token"
)

const oauthStateCookie = "oauth_state"

// AuthHandler exposes the account lifecycle over HTTP.
type AuthHandler struct {
	auth   *service.AuthService
	oauth  *service.GoogleOAuth
	cfg    *config.Config
	logger *zap.Logger
}

func NewAuthHandler(auth *service.AuthService, oauth *service.GoogleOAuth, cfg *config.Config, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		oauth:  oauth,
		cfg:    cfg,
		logger: logger,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), strings.ToLower(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
			return
		}
		internalError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Registered, verify email sent",
		"user":    toPublicUser(user),
	})
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	err := h.auth.VerifyEmail(c.Request.Context(), c.Param("token"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired token"})
			return
		}
		internalError(c, h.logger, err)
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("%s/login?verified=true", h.cfg.FrontendURL))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	user, sessionToken, err := h.auth.Login(c.Request.Context(), strings.ToLower(req.Email), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"message": "User not found"})
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		case errors.Is(err, service.ErrNotVerified):
			c.JSON(http.StatusForbidden, gin.H{"message": "Please verify your email first"})
		default:
			internalError(c, h.logger, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged in",
		"user":    toPublicUser(user),
		"token":   sessionToken,
	})
}

func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	if !h.oauth.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Google login is not configured"})
		return
	}

	state, err := token.NewSessionID()
	if err != nil {
		internalError(c, h.logger, err)
		return
	}

	// Secure over HTTPS in production; local development runs plain HTTP.
	c.SetCookie(oauthStateCookie, state, 600, "/", "", config.IsProduction(), true)
	c.Redirect(http.StatusFound, h.oauth.AuthURL(state))
}

func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	state, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || c.Query("state") != state {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid OAuth state"})
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", config.IsProduction(), true)

	email, err := h.oauth.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		h.logger.Warn("oauth exchange failed", zap.Error(err))
		c.Redirect(http.StatusFound, fmt.Sprintf("%s/login?error=oauth_failed", h.cfg.FrontendURL))
		return
	}

	_, sessionToken, err := h.auth.OAuthLogin(c.Request.Context(), strings.ToLower(email))
	if err != nil {
		internalError(c, h.logger, err)
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("%s/login?token=%s", h.cfg.FrontendURL, sessionToken))
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email is required"})
		return
	}

	err := h.auth.ForgotPassword(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		internalError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reset link sent"})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	err := h.auth.ResetPassword(c.Request.Context(), c.Param("token"), req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired token"})
			return
		}
		internalError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email is required"})
		return
	}

	err := h.auth.ResendVerification(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "No account found with that email"})
		case errors.Is(err, service.ErrAlreadyVerified):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Account already verified"})
		default:
			internalError(c, h.logger, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification email sent"})
}

// CheckAuth is the identity introspection endpoint. Unlike the middleware it
// answers 401 for any credential problem so clients can treat it as a simple
// logged-in probe.
func (h *AuthHandler) CheckAuth(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		c.JSON(http.StatusUnauthorized, gin.H{
			"authenticated": false,
			"error":         "Missing or invalid Authorization header",
		})
		return
	}

	sessionToken := strings.TrimPrefix(authHeader, "Bearer ")
	if sessionToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"authenticated": false,
			"error":         "Token missing",
		})
		return
	}

	claims, err := h.auth.VerifySession(c.Request.Context(), sessionToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"authenticated": false,
			"error":         "Invalid or expired token",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"user":          claims,
	})
}

// Logout revokes the session where the active strategy supports it. Bearer
// tokens have no server-side revocation and stay valid until expiry.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), middleware.BearerToken(c)); err != nil {
		internalError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

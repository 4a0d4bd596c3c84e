package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/myportfolify/backend/internal/models"
	"github.com/myportfolify/backend/internal/token"
	"github.com/myportfolify/backend/internal/types"
)

const resetTokenTTL = time.Hour

// AuthService orchestrates the account lifecycle: registration, email
// verification, login, password reset and OAuth provisioning.
type AuthService struct {
	db       *gorm.DB
	sessions SessionStrategy
	mailer   IEmailService
	logger   *zap.Logger
}

func NewAuthService(db *gorm.DB, sessions SessionStrategy, mailer IEmailService, logger *zap.Logger) *AuthService {
	return &AuthService{
		db:       db,
		sessions: sessions,
		mailer:   mailer,
		logger:   logger,
	}
}

// Register creates a pending account and sends the verification email. No
// session is issued: the user must verify before logging in. One email means
// one account, regardless of how it was provisioned, so an OAuth-created
// account blocks a password registration on the same address.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	verificationToken, err := token.New()
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:             email,
		PasswordHash:      string(hashed),
		VerificationToken: verificationToken,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.mailer.SendVerificationEmail(&user, verificationToken); err != nil {
		return nil, fmt.Errorf("failed to send verification email: %w", err)
	}

	return &user, nil
}

// VerifyEmail consumes a verification token. The token is cleared in the same
// statement that flips the flag, so it is single-use even under concurrent
// requests.
func (s *AuthService) VerifyEmail(ctx context.Context, verificationToken string) error {
	if verificationToken == "" {
		return ErrInvalidToken
	}

	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("verification_token = ?", verificationToken).
		Updates(map[string]interface{}{
			"is_verified":        true,
			"verification_token": "",
		})
	if res.Error != nil {
		return fmt.Errorf("failed to verify email: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrInvalidToken
	}

	return nil
}

// Login authenticates a password account and issues a session credential.
// The verification check runs after the credential match, mirroring the
// existing frontend contract; note that this order reveals verification
// status to callers holding valid credentials only.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.HasUsablePassword() {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, "", ErrNotVerified
	}

	// Best-effort: a failed activity update must not block the login.
	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&user).UpdateColumns(map[string]interface{}{
		"last_login":  now,
		"login_count": gorm.Expr("login_count + 1"),
	}).Error; err != nil {
		s.logger.Warn("failed to update login activity", zap.String("email", email), zap.Error(err))
	} else {
		user.LastLogin = &now
		user.LoginCount++
	}

	sessionToken, err := s.sessions.Issue(ctx, &user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue session: %w", err)
	}

	return &user, sessionToken, nil
}

// OAuthLogin resolves a provider-verified email to a local account, creating
// an auto-verified one with no usable password on first login.
func (s *AuthService) OAuthLogin(ctx context.Context, email string) (*models.User, string, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			Email:      email,
			Provider:   models.ProviderGoogle,
			IsVerified: true,
		}
		if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, "", fmt.Errorf("failed to provision oauth user: %w", err)
			}
			// Lost a provisioning race; the account exists now.
			if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
				return nil, "", fmt.Errorf("failed to load oauth user: %w", err)
			}
		}
	} else if err != nil {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	sessionToken, err := s.sessions.Issue(ctx, &user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue session: %w", err)
	}

	return &user, sessionToken, nil
}

// ForgotPassword rotates the reset token. Issuing a new token invalidates any
// previously issued one.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	resetToken, err := token.New()
	if err != nil {
		return err
	}
	expiry := time.Now().Add(resetTokenTTL)

	if err := s.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"reset_token":        resetToken,
		"reset_token_expiry": expiry,
	}).Error; err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if err := s.mailer.SendPasswordResetEmail(&user, resetToken); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	return nil
}

// ResetPassword consumes a reset token and stores the new password hash. The
// token and its expiry are cleared in the same statement that matches them,
// making the token single-use.
func (s *AuthService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if resetToken == "" {
		return ErrInvalidToken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("reset_token = ? AND reset_token_expiry > ?", resetToken, time.Now()).
		Updates(map[string]interface{}{
			"password_hash":      string(hashed),
			"reset_token":        "",
			"reset_token_expiry": nil,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to reset password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrInvalidToken
	}

	return nil
}

// ResendVerification rotates the verification token and re-sends the email.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	if user.IsVerified {
		return ErrAlreadyVerified
	}

	verificationToken, err := token.New()
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Model(&user).
		Update("verification_token", verificationToken).Error; err != nil {
		return fmt.Errorf("failed to rotate verification token: %w", err)
	}
	user.VerificationToken = verificationToken

	if err := s.mailer.SendVerificationEmail(&user, verificationToken); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	return nil
}

// Logout revokes the session where the strategy supports it. Under the JWT
// strategy this is a no-op and the token stays valid until expiry.
func (s *AuthService) Logout(ctx context.Context, sessionToken string) error {
	return s.sessions.Revoke(ctx, sessionToken)
}

// VerifySession resolves a credential to identity claims. Used by the auth
// middleware and the introspection endpoint.
func (s *AuthService) VerifySession(ctx context.Context, sessionToken string) (*types.TokenClaims, error) {
	return s.sessions.Verify(ctx, sessionToken)
}

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/myportfolify/backend/internal/models"
	"github.com/myportfolify/backend/internal/service"
	"github.com/myportfolify/backend/internal/testhelpers"
)

func newAuthService(t *testing.T) (*service.AuthService, *fakeMailer, *gorm.DB) {
	t.Helper()
	db := testhelpers.SetupTestDatabase(t)
	mailer := newFakeMailer()
	sessions := service.NewJWTStrategy("test-secret")
	return service.NewAuthService(db, sessions, mailer, zap.NewNop()), mailer, db
}

func TestRegisterVerifyLogin(t *testing.T) {
	svc, mailer, _ := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	assert.False(t, user.IsVerified)
	assert.NotEmpty(t, user.VerificationToken)

	// Correct credentials before verification are rejected.
	_, _, err = svc.Login(ctx, "alice@example.com", "password123")
	assert.ErrorIs(t, err, service.ErrNotVerified)

	tok := mailer.verificationToken("alice@example.com")
	require.NotEmpty(t, tok)
	require.NoError(t, svc.VerifyEmail(ctx, tok))

	loggedIn, sessionToken, err := svc.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, sessionToken)
	assert.Equal(t, 1, loggedIn.LoginCount)
	require.NotNil(t, loggedIn.LastLogin)

	loggedIn, _, err = svc.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, 2, loggedIn.LoginCount)
}

func TestVerifyEmailTokenSingleUse(t *testing.T) {
	svc, mailer, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "bob@example.com", "password123")
	require.NoError(t, err)

	tok := mailer.verificationToken("bob@example.com")
	require.NoError(t, svc.VerifyEmail(ctx, tok))

	assert.ErrorIs(t, svc.VerifyEmail(ctx, tok), service.ErrInvalidToken)
	assert.ErrorIs(t, svc.VerifyEmail(ctx, ""), service.ErrInvalidToken)
	assert.ErrorIs(t, svc.VerifyEmail(ctx, "no-such-token"), service.ErrInvalidToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "carol@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "carol@example.com", "different456")
	assert.ErrorIs(t, err, service.ErrUserExists)
}

func TestRegisterBlockedByOAuthAccount(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	_, _, err := svc.OAuthLogin(ctx, "dave@example.com")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "dave@example.com", "password123")
	assert.ErrorIs(t, err, service.ErrUserExists)
}

func TestLoginFailures(t *testing.T) {
	svc, mailer, _ := newAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, service.ErrUserNotFound)

	_, err = svc.Register(ctx, "erin@example.com", "password123")
	require.NoError(t, err)
	require.NoError(t, svc.VerifyEmail(ctx, mailer.verificationToken("erin@example.com")))

	_, _, err = svc.Login(ctx, "erin@example.com", "wrong-password")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLoginOAuthAccountHasNoPassword(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	_, _, err := svc.OAuthLogin(ctx, "frank@example.com")
	require.NoError(t, err)

	// An account provisioned via OAuth is verified but cannot log in with
	// any password.
	_, _, err = svc.Login(ctx, "frank@example.com", "")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestOAuthLoginProvisionsVerifiedAccount(t *testing.T) {
	svc, _, db := newAuthService(t)
	ctx := context.Background()

	user, sessionToken, err := svc.OAuthLogin(ctx, "grace@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, sessionToken)
	assert.True(t, user.IsVerified)
	assert.Equal(t, models.ProviderGoogle, user.Provider)
	assert.False(t, user.HasUsablePassword())

	// Second login reuses the same account.
	again, _, err := svc.OAuthLogin(ctx, "grace@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, mailer, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "henry@example.com", "original123")
	require.NoError(t, err)
	require.NoError(t, svc.VerifyEmail(ctx, mailer.verificationToken("henry@example.com")))

	require.NoError(t, svc.ForgotPassword(ctx, "henry@example.com"))
	tok := mailer.resetToken("henry@example.com")
	require.NotEmpty(t, tok)

	require.NoError(t, svc.ResetPassword(ctx, tok, "changed456"))

	_, _, err = svc.Login(ctx, "henry@example.com", "original123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "henry@example.com", "changed456")
	assert.NoError(t, err)

	// The token was consumed by the first reset.
	assert.ErrorIs(t, svc.ResetPassword(ctx, tok, "again789"), service.ErrInvalidToken)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	svc, _, _ := newAuthService(t)
	err := svc.ForgotPassword(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestForgotPasswordRotationInvalidatesOldToken(t *testing.T) {
	svc, mailer, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "iris@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, "iris@example.com"))
	first := mailer.resetToken("iris@example.com")

	require.NoError(t, svc.ForgotPassword(ctx, "iris@example.com"))
	second := mailer.resetToken("iris@example.com")
	require.NotEqual(t, first, second)

	assert.ErrorIs(t, svc.ResetPassword(ctx, first, "newpass123"), service.ErrInvalidToken)
	assert.NoError(t, svc.ResetPassword(ctx, second, "newpass123"))
}

func TestResetPasswordExpiredToken(t *testing.T) {
	svc, mailer, db := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "judy@example.com", "password123")
	require.NoError(t, err)
	require.NoError(t, svc.ForgotPassword(ctx, "judy@example.com"))
	tok := mailer.resetToken("judy@example.com")

	expired := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(&models.User{}).
		Where("email = ?", "judy@example.com").
		Update("reset_token_expiry", expired).Error)

	assert.ErrorIs(t, svc.ResetPassword(ctx, tok, "newpass123"), service.ErrInvalidToken)
}

func TestResendVerification(t *testing.T) {
	svc, mailer, _ := newAuthService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.ResendVerification(ctx, "nobody@example.com"), service.ErrUserNotFound)

	_, err := svc.Register(ctx, "kate@example.com", "password123")
	require.NoError(t, err)
	first := mailer.verificationToken("kate@example.com")

	require.NoError(t, svc.ResendVerification(ctx, "kate@example.com"))
	second := mailer.verificationToken("kate@example.com")
	require.NotEqual(t, first, second)

	// The rotated token supersedes the original.
	assert.ErrorIs(t, svc.VerifyEmail(ctx, first), service.ErrInvalidToken)
	require.NoError(t, svc.VerifyEmail(ctx, second))

	assert.ErrorIs(t, svc.ResendVerification(ctx, "kate@example.com"), service.ErrAlreadyVerified)
}

func TestVerifySessionRoundTrip(t *testing.T) {
	svc, mailer, _ := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "liam@example.com", "password123")
	require.NoError(t, err)
	require.NoError(t, svc.VerifyEmail(ctx, mailer.verificationToken("liam@example.com")))

	_, sessionToken, err := svc.Login(ctx, "liam@example.com", "password123")
	require.NoError(t, err)

	claims, err := svc.VerifySession(ctx, sessionToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "liam@example.com", claims.Email)
}

package service

import (
	"context"

	"github.com/myportfolify/backend/internal/models"
	"github.com/myportfolify/backend/internal/types"
)

// SessionStrategy issues and verifies the credential that proves identity
// between requests. Two implementations exist: stateless signed JWTs (no
// server-side revocation; logout is client-local and tokens stay valid until
// natural expiry) and redis-backed opaque sessions (revocable, sliding TTL).
type SessionStrategy interface {
	Issue(ctx context.Context, user *models.User) (string, error)
	Verify(ctx context.Context, token string) (*types.TokenClaims, error)
	Revoke(ctx context.Context, token string) error
}

// IEmailService sends account lifecycle mail. Implementations log the mail
// instead of sending when SMTP is not configured.
type IEmailService interface {
	SendVerificationEmail(user *models.User, token string) error
	SendPasswordResetEmail(user *models.User, token string) error
	SendEmail(to, subject, textBody, htmlBody string) error
}

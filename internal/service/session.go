package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/myportfolify/backend/internal/models"
	"github.com/myportfolify/backend/internal/token"
	"github.com/myportfolify/backend/internal/types"
)

const (
	bearerTokenTTL = 7 * 24 * time.Hour
	sessionTTL     = 24 * time.Hour

	sessionKeyPrefix = "session:"
)

// JWTStrategy issues stateless HS256-signed bearer tokens. Verification needs
// no store lookup; Revoke is a no-op because a signed token cannot be
// invalidated before its natural expiry.
type JWTStrategy struct {
	secret string
}

var _ SessionStrategy = (*JWTStrategy)(nil)

func NewJWTStrategy(secret string) *JWTStrategy {
	return &JWTStrategy{secret: secret}
}

func (s *JWTStrategy) Issue(ctx context.Context, user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"exp":     time.Now().Add(bearerTokenTTL).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(s.secret))
}

func (s *JWTStrategy) Verify(ctx context.Context, tokenString string) (*types.TokenClaims, error) {
	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return nil, ErrInvalidToken
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, ErrInvalidToken
	}

	email, _ := claims["email"].(string)

	return &types.TokenClaims{
		UserID: userID,
		Email:  email,
	}, nil
}

// Revoke does nothing: discarding the token is the client's responsibility.
func (s *JWTStrategy) Revoke(ctx context.Context, tokenString string) error {
	return nil
}

// RedisSessionStrategy stores opaque session ids server-side with a sliding
// 24 hour TTL. Logout deletes the session, so revocation takes effect
// immediately.
type RedisSessionStrategy struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

var _ SessionStrategy = (*RedisSessionStrategy)(nil)

func NewRedisSessionStrategy(client *redis.Client, logger *zap.Logger) *RedisSessionStrategy {
	return &RedisSessionStrategy{
		client: client,
		ttl:    sessionTTL,
		logger: logger,
	}
}

func (s *RedisSessionStrategy) Issue(ctx context.Context, user *models.User) (string, error) {
	sid, err := token.NewSessionID()
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(types.TokenClaims{
		UserID: user.ID,
		Email:  user.Email,
	})
	if err != nil {
		return "", err
	}

	if err := s.client.Set(ctx, sessionKeyPrefix+sid, payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	return sid, nil
}

func (s *RedisSessionStrategy) Verify(ctx context.Context, sid string) (*types.TokenClaims, error) {
	payload, err := s.client.Get(ctx, sessionKeyPrefix+sid).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var claims types.TokenClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, ErrInvalidToken
	}

	// Sliding expiry: each authenticated request extends the session. A
	// failed refresh must not fail the request, but it should be visible.
	if err := s.client.Expire(ctx, sessionKeyPrefix+sid, s.ttl).Err(); err != nil {
		s.logger.Warn("failed to refresh session ttl", zap.Error(err))
	}

	return &claims, nil
}

func (s *RedisSessionStrategy) Revoke(ctx context.Context, sid string) error {
	return s.client.Del(ctx, sessionKeyPrefix+sid).Err()
}

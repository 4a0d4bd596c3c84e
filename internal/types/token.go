package types

import (
	"github.com/google/uuid"
)

// TokenClaims is the identity resolved from a bearer token or server-side
// session. It is attached to the request context by the auth middleware.
type TokenClaims struct {
	UserID uuid.UUID `json:"id"`
	Email  string    `json:"email"`
}

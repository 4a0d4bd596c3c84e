// Package token generates the opaque single-use tokens used for email
// verification and password reset links. Tokens carry no structure; they are
// recognized only by exact match against the stored value.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

const opaqueTokenSize = 32 // 256 bits of entropy

// New returns a fresh random token, hex encoded.
func New() (string, error) {
	raw := make([]byte, opaqueTokenSize)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(raw), nil
}

// NewSessionID returns a compact random identifier for server-side sessions.
func NewSessionID() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

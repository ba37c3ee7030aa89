package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the small fact set carried inside the signed session
// cookie. The role in here is trusted for authorization decisions until the
// token's natural expiry; a role change does not invalidate tokens already
// in the wild.
type SessionClaims struct {
	Role          string `json:"role"`
	EmailVerified bool   `json:"email_verified"`
	jwt.RegisteredClaims
}

// UserID parses the numeric subject. Returns 0 for a malformed subject,
// which no persisted user ever has.
func (c *SessionClaims) UserID() int64 {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

var errSecretTooShort = errors.New("auth: session secret must be at least 32 bytes")

// SessionCodec signs and verifies session tokens with a process-wide
// symmetric secret. Expiry is fixed at construction and non-renewing.
type SessionCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionCodec fails when the secret is missing or too short; the caller
// is expected to treat that as a fatal startup error.
func NewSessionCodec(secret string, ttl time.Duration) (*SessionCodec, error) {
	if len(secret) < 32 {
		return nil, errSecretTooShort
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &SessionCodec{secret: []byte(secret), ttl: ttl}, nil
}

func (c *SessionCodec) TTL() time.Duration {
	return c.ttl
}

// Encode signs the claims with HS256 and the fixed expiry window.
func (c *SessionCodec) Encode(userID int64, role Role, emailVerified bool) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		Role:          string(role),
		EmailVerified: emailVerified,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign session token: %w", err)
	}
	return signed, nil
}

// Decode returns the verified claims, or nil on any failure: malformed
// token, wrong signature, wrong algorithm, or expiry in the past. Callers
// treat every nil identically as "no valid session" so the failure cause
// never leaks into behavior.
func (c *SessionCodec) Decode(tokenString string) *SessionClaims {
	if tokenString == "" {
		return nil
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return nil
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil
	}
	return claims
}

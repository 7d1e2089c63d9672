package accounts

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthClaims is the decoded payload of a bearer token. The guard checks
// TokenID against the revocation ledger and IssuedAt against the account's
// credential epoch before the payload is trusted.
type AuthClaims interface {
	Subject() string
	UserID() string
	Role() string
	TokenID() string
	HasRole(role string) bool
	IssuedAt() time.Time
	Expires() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims
type JWTClaims struct {
	jwt.RegisteredClaims
	UID      string `json:"uid,omitempty"`
	UserRole string `json:"role,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID
func (c *JWTClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// UserUUID parses the user ID claim
func (c *JWTClaims) UserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID())
}

// Role returns the account role carried by the token
func (c *JWTClaims) Role() string {
	return c.UserRole
}

// TokenID returns the token's unique claim, the revocation key
func (c *JWTClaims) TokenID() string {
	return c.RegisteredClaims.ID
}

// HasRole checks the token's role claim
func (c *JWTClaims) HasRole(role string) bool {
	return c.UserRole == role
}

// IssuedAt returns the issue instant, zero when absent
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt == nil {
		return time.Time{}
	}
	return c.RegisteredClaims.IssuedAt.Time
}

// Expires returns the token's own expiry, zero when absent
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt == nil {
		return time.Time{}
	}
	return c.RegisteredClaims.ExpiresAt.Time
}

// ensureTokenID assigns a unique ID so every token can be revoked
// individually.
func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}

package procure

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenUse tags what a token may be exchanged for, so one token class can
// never stand in for another.
type TokenUse = string

const (
	// TokenUseAccess is the bearer credential for protected operations
	TokenUseAccess TokenUse = "access"
	// TokenUseRefresh may only be exchanged for a new access token
	TokenUseRefresh TokenUse = "refresh"
)

// AuthClaims represents structured JWT claims
type AuthClaims interface {
	Subject() string
	SubjectUUID() (uuid.UUID, error)
	Role() string
	Use() TokenUse
	HasRole(role string) bool
	IsAtLeast(minRole string) bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims
type JWTClaims struct {
	jwt.RegisteredClaims
	TokenType string `json:"type,omitempty"`
	UserRole  string `json:"role,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// SubjectUUID returns the subject parsed as the identifier type the
// credential store uses. The canonical uuid text form round-trips without
// ambiguity.
func (c *JWTClaims) SubjectUUID() (uuid.UUID, error) {
	return uuid.Parse(c.RegisteredClaims.Subject)
}

// Role returns the role captured at issue time. Authorization decisions re-read
// the live user record; this value is advisory only.
func (c *JWTClaims) Role() string {
	return c.UserRole
}

// Use returns the token use tag
func (c *JWTClaims) Use() TokenUse {
	return c.TokenType
}

// HasRole checks if the claims carry a specific role
func (c *JWTClaims) HasRole(role string) bool {
	return c.UserRole == role
}

// IsAtLeast checks if the claims role is at least the minimum required role
func (c *JWTClaims) IsAtLeast(minRole string) bool {
	return RoleIsAtLeast(UserRole(c.UserRole), UserRole(minRole))
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

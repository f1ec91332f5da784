package procure

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated identity
type Identity interface {
	ID() string
	Username() string
	Email() string
	Role() string
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, identifier, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	IdentityFromToken(ctx context.Context, token string) (Identity, error)
}

// TokenPair is what a successful login hands back to the HTTP layer.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// Config holds auth options. It is built once at startup and injected into
// constructors; the signing key is never logged or serialized.
type Config struct {
	SigningKey       string `json:"-" koanf:"signing_key"`
	SigningMethod    string `json:"signing_method" koanf:"signing_method"`
	Issuer           string `json:"issuer" koanf:"issuer"`
	ContextKey       string `json:"context_key" koanf:"context_key"`
	AccessTTLMinutes int    `json:"access_ttl_minutes" koanf:"access_ttl_minutes"`
	RefreshTTLDays   int    `json:"refresh_ttl_days" koanf:"refresh_ttl_days"`
}

func (c Config) GetSigningKey() string { return c.SigningKey }
func (c Config) GetIssuer() string     { return c.Issuer }

func (c Config) GetSigningMethod() string {
	if c.SigningMethod == "" {
		return "HS256"
	}
	return c.SigningMethod
}

func (c Config) GetContextKey() string {
	if c.ContextKey == "" {
		return "user"
	}
	return c.ContextKey
}

func (c Config) GetAccessTTL() time.Duration {
	minutes := c.AccessTTLMinutes
	if minutes <= 0 {
		minutes = 30
	}
	return time.Duration(minutes) * time.Minute
}

func (c Config) GetRefreshTTL() time.Duration {
	days := c.RefreshTTLDays
	if days <= 0 {
		days = 7
	}
	return time.Duration(days) * 24 * time.Hour
}

// IdentityProvider ensures we have a store to retrieve auth identities
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error)
	FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error)
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// NewDefaultLogger returns the stdout fallback logger used when no logger is
// injected.
func NewDefaultLogger() Logger {
	return defLogger{}
}

type defLogger struct{}

func (d defLogger) Error(msg string, args ...any) {
	fmt.Println(formatLogLine("ERR", msg, args))
}

func (d defLogger) Warn(msg string, args ...any) {
	fmt.Println(formatLogLine("WRN", msg, args))
}

func (d defLogger) Info(msg string, args ...any) {
	fmt.Println(formatLogLine("INF", msg, args))
}

func (d defLogger) Debug(msg string, args ...any) {
	fmt.Println(formatLogLine("DBG", msg, args))
}

// formatLogLine renders slog-style key/value pairs; a trailing unpaired
// value is printed bare.
func formatLogLine(level, msg string, args []any) string {
	out := "[" + level + "] AUTH " + msg
	for i := 0; i+1 < len(args); i += 2 {
		out += fmt.Sprintf(" %v=%v", args[i], args[i+1])
	}
	if len(args)%2 == 1 {
		out += fmt.Sprintf(" %v", args[len(args)-1])
	}
	return out
}

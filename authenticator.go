package procure

import (
	"context"

	"github.com/goliatone/go-errors"
)

// Auther orchestrates credential verification and token issuance.
type Auther struct {
	provider     IdentityProvider
	cfg          Config
	logger       Logger
	tokenService TokenService
}

// NewAuthenticator returns a new Authenticator. Configuration is injected as
// an explicit value so tests can run with distinct secrets.
func NewAuthenticator(provider IdentityProvider, cfg Config, opts ...TokenServiceOption) *Auther {
	return &Auther{
		provider:     provider,
		cfg:          cfg,
		logger:       defLogger{},
		tokenService: NewTokenService(cfg, defLogger{}, opts...),
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithTokenService sets a custom token service.
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login exchanges a credential pair for an access/refresh token pair. Every
// failure that would reveal whether the account exists is collapsed into
// ErrInvalidCredentials.
func (s *Auther) Login(ctx context.Context, identifier, password string) (*TokenPair, error) {
	identity, err := s.provider.VerifyIdentity(ctx, identifier, password)
	if err != nil {
		s.logger.Info("login rejected", "error", err)
		if isCredentialShapedError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if identity == nil {
		return nil, ErrInvalidCredentials
	}

	return s.issuePair(identity)
}

// Refresh exchanges a valid refresh token for a fresh token pair. Access
// tokens presented here fail with ErrTokenWrongType.
func (s *Auther) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokenService.Validate(refreshToken, TokenUseRefresh)
	if err != nil {
		return nil, err
	}

	identity, err := s.provider.FindIdentityByIdentifier(ctx, claims.Subject())
	if err != nil {
		return nil, err
	}

	return s.issuePair(identity)
}

// IdentityFromToken validates an access token and re-resolves the live user
// record, so a deactivated account loses access on its very next request even
// though the token has not expired.
func (s *Auther) IdentityFromToken(ctx context.Context, token string) (Identity, error) {
	claims, err := s.tokenService.Validate(token, TokenUseAccess)
	if err != nil {
		return nil, err
	}

	return s.provider.FindIdentityByIdentifier(ctx, claims.Subject())
}

func (s *Auther) issuePair(identity Identity) (*TokenPair, error) {
	access, err := s.tokenService.Generate(identity, TokenUseAccess, s.cfg.GetAccessTTL())
	if err != nil {
		s.logger.Error("failed to sign access token", "error", err)
		return nil, err
	}

	refresh, err := s.tokenService.Generate(identity, TokenUseRefresh, s.cfg.GetRefreshTTL())
	if err != nil {
		s.logger.Error("failed to sign refresh token", "error", err)
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int(s.cfg.GetAccessTTL().Seconds()),
	}, nil
}

// isCredentialShapedError reports whether an error would leak account state
// if surfaced as-is from the login path. Unknown identifiers, wrong passwords,
// and deactivated accounts must all look the same to the caller; inactive
// accounts stay distinguishable only on token-authenticated requests, where
// the caller already holds a credential.
func isCredentialShapedError(err error) bool {
	var rich *errors.Error
	if !errors.As(err, &rich) {
		return false
	}
	switch rich.TextCode {
	case ErrMismatchedHashAndPassword.TextCode,
		ErrIdentityNotFound.TextCode,
		ErrAccountInactive.TextCode:
		return true
	}
	return false
}

package procure

import (
	"context"
	"errors"

	"github.com/goliatone/go-router"
	"github.com/hotelgrid/procure/middleware/bearerware"
)

// ValidationListener aliases the bearerware listener so consumers can use helpers directly.
type ValidationListener = bearerware.ValidationListener

// accessTokenValidator narrows TokenService.Validate to the access-token case
// the middleware cares about.
type accessTokenValidator struct {
	ts TokenService
}

func (v accessTokenValidator) Validate(tokenString string) (bearerware.AuthClaims, error) {
	claims, err := v.ts.Validate(tokenString, TokenUseAccess)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// ContextEnricherAdapter adapts bearerware.AuthClaims to AuthClaims and stores
// them in the standard context for downstream gate usage.
func ContextEnricherAdapter(c context.Context, claims bearerware.AuthClaims) context.Context {
	authClaims, ok := claims.(AuthClaims)
	if !ok {
		return c
	}
	return WithClaimsContext(c, authClaims)
}

// ProtectedRoute guards an endpoint with bearer token validation, then
// re-reads the live account through the gate. allowed narrows the route to
// specific roles; empty means any active account.
func ProtectedRoute(cfg Config, ts TokenService, gate *Gate, errorHandler router.ErrorHandler, allowed ...UserRole) router.MiddlewareFunc {
	return bearerware.New(bearerware.Config{
		ErrorHandler:    errorHandler,
		ContextKey:      cfg.GetContextKey(),
		TokenValidator:  accessTokenValidator{ts: ts},
		ContextEnricher: ContextEnricherAdapter,
		IdentityResolver: func(ctx context.Context, claims bearerware.AuthClaims) (any, error) {
			authClaims, ok := claims.(AuthClaims)
			if !ok {
				return nil, ErrTokenMalformed
			}

			user, err := gate.Authorize(ctx, authClaims, allowed...)
			if err != nil {
				return nil, err
			}

			return user, nil
		},
	})
}

// MakeAuthErrorHandler wraps token failures in the error vocabulary the JSON
// surface uses. optional lets a route proceed without credentials.
func MakeAuthErrorHandler(logger Logger, optional bool) router.ErrorHandler {
	return func(ctx router.Context, err error) error {
		if optional {
			logger.Info("optional auth failed, proceeding", "error", err)
			return ctx.Next()
		}

		if errors.Is(err, bearerware.ErrJWTMissingOrMalformed) {
			return WriteJSONError(ctx, ErrTokenMalformed)
		}

		if IsTokenExpiredError(err) {
			return WriteJSONError(ctx, ErrTokenExpired)
		}

		if IsMalformedError(err) {
			return WriteJSONError(ctx, ErrTokenMalformed)
		}

		return WriteJSONError(ctx, err)
	}
}

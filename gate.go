package procure

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// UserResolver re-reads a live user record by primary key.
type UserResolver interface {
	GetByUUID(ctx context.Context, id uuid.UUID) (*User, error)
}

// Gate is the single authorization entry point for protected operations.
// Handlers never inspect roles directly; they ask the gate.
type Gate struct {
	users  UserResolver
	logger Logger
}

func NewGate(users UserResolver) *Gate {
	return &Gate{
		users:  users,
		logger: defLogger{},
	}
}

func (g *Gate) WithLogger(logger Logger) *Gate {
	if logger != nil {
		g.logger = logger
	}
	return g
}

// ResolveIdentity loads the current user record for the given subject. Token
// claims are treated as hints only: deactivation or deletion after issuance
// takes effect here, on the next request.
func (g *Gate) ResolveIdentity(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := g.users.GetByUUID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		// store failures are not an auth verdict; let them surface as-is
		return nil, err
	}
	return user, ensureAuthenticatableUser(user)
}

// RequireRole allows the request when the user holds one of the named roles.
// Superusers pass every role check.
func (g *Gate) RequireRole(user *User, allowed ...UserRole) error {
	if user == nil {
		return ErrIdentityNotFound
	}

	if user.IsSuperuser {
		return nil
	}

	for _, role := range allowed {
		if user.Role == role {
			return nil
		}
	}

	g.logger.Warn("role check failed", "user_id", user.ID, "role", user.Role)

	return ErrForbidden
}

// RequireAtLeast allows the request when the user's role sits at or above
// minRole in the role hierarchy.
func (g *Gate) RequireAtLeast(user *User, minRole UserRole) error {
	if user == nil {
		return ErrIdentityNotFound
	}

	if user.IsSuperuser {
		return nil
	}

	if RoleIsAtLeast(user.Role, minRole) {
		return nil
	}

	g.logger.Warn("role check failed", "user_id", user.ID, "role", user.Role, "min_role", minRole)

	return ErrForbidden
}

// Authorize composes subject resolution and the role check in one call.
func (g *Gate) Authorize(ctx context.Context, claims AuthClaims, allowed ...UserRole) (*User, error) {
	subject, err := claims.SubjectUUID()
	if err != nil {
		return nil, ErrTokenMalformed
	}

	user, err := g.ResolveIdentity(ctx, subject)
	if err != nil {
		return nil, err
	}

	if len(allowed) == 0 {
		return user, nil
	}

	if err := g.RequireRole(user, allowed...); err != nil {
		return nil, err
	}

	return user, nil
}

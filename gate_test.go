package procure_test

import (
	"context"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	procure "github.com/hotelgrid/procure"
)

func TestRequireRole(t *testing.T) {
	gate := procure.NewGate(new(MockUserResolver))

	tests := []struct {
		name    string
		user    *procure.User
		allowed []procure.UserRole
		wantErr error
	}{
		{
			name:    "exact role passes",
			user:    &procure.User{Role: procure.RoleManager},
			allowed: []procure.UserRole{procure.RoleManager},
			wantErr: nil,
		},
		{
			name:    "role in allowed set passes",
			user:    &procure.User{Role: procure.RoleAdmin},
			allowed: []procure.UserRole{procure.RoleManager, procure.RoleAdmin},
			wantErr: nil,
		},
		{
			name:    "role outside allowed set denied",
			user:    &procure.User{Role: procure.RoleStaff},
			allowed: []procure.UserRole{procure.RoleManager},
			wantErr: procure.ErrForbidden,
		},
		{
			name:    "superuser flag bypasses role check",
			user:    &procure.User{Role: procure.RoleStaff, IsSuperuser: true},
			allowed: []procure.UserRole{procure.RoleAdmin},
			wantErr: nil,
		},
		{
			name:    "nil user denied",
			user:    nil,
			allowed: []procure.UserRole{procure.RoleStaff},
			wantErr: procure.ErrIdentityNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gate.RequireRole(tt.user, tt.allowed...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRequireAtLeast(t *testing.T) {
	gate := procure.NewGate(new(MockUserResolver))

	assert.NoError(t, gate.RequireAtLeast(&procure.User{Role: procure.RoleAdmin}, procure.RoleManager))
	assert.NoError(t, gate.RequireAtLeast(&procure.User{Role: procure.RoleManager}, procure.RoleManager))
	assert.ErrorIs(t,
		gate.RequireAtLeast(&procure.User{Role: procure.RoleStaff}, procure.RoleManager),
		procure.ErrForbidden)
	assert.NoError(t, gate.RequireAtLeast(&procure.User{Role: "unknown", IsSuperuser: true}, procure.RoleAdmin))
}

func TestResolveIdentity(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserResolver)
	gate := procure.NewGate(users)

	activeID := uuid.New()
	inactiveID := uuid.New()
	missingID := uuid.New()

	users.On("GetByUUID", ctx, activeID).
		Return(&procure.User{ID: activeID, Role: procure.RoleStaff, IsActive: true}, nil)
	users.On("GetByUUID", ctx, inactiveID).
		Return(&procure.User{ID: inactiveID, Role: procure.RoleStaff, IsActive: false}, nil)
	users.On("GetByUUID", ctx, missingID).
		Return(nil, notFoundErr())

	user, err := gate.ResolveIdentity(ctx, activeID)
	require.NoError(t, err)
	assert.Equal(t, activeID, user.ID)

	_, err = gate.ResolveIdentity(ctx, inactiveID)
	assert.ErrorIs(t, err, procure.ErrAccountInactive)

	_, err = gate.ResolveIdentity(ctx, missingID)
	assert.ErrorIs(t, err, procure.ErrIdentityNotFound)
}

// A store outage is not an auth verdict; only a missing record maps to
// ErrIdentityNotFound.
func TestResolveIdentityPropagatesStoreFailures(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserResolver)
	gate := procure.NewGate(users)

	id := uuid.New()
	storeErr := goerrors.New("driver: bad connection", goerrors.CategoryInternal)

	users.On("GetByUUID", ctx, id).Return(nil, storeErr)

	_, err := gate.ResolveIdentity(ctx, id)
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, procure.ErrIdentityNotFound)
}

// A token issued before deactivation stops working on the next authorized
// request, well before its expiry.
func TestAuthorizeReChecksLiveUser(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserResolver)
	gate := procure.NewGate(users)

	user := &procure.User{ID: uuid.New(), Role: procure.RoleStaff, IsActive: true}

	ts := procure.NewTokenService(newTestConfig(), nil)
	token, err := ts.Generate(procure.NewIdentityFromUser(user), procure.TokenUseAccess, 30*time.Minute)
	require.NoError(t, err)

	claims, err := ts.Validate(token, procure.TokenUseAccess)
	require.NoError(t, err)

	users.On("GetByUUID", ctx, user.ID).Return(user, nil).Once()
	resolved, err := gate.Authorize(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	deactivated := *user
	deactivated.IsActive = false

	users.On("GetByUUID", ctx, user.ID).Return(&deactivated, nil).Once()
	_, err = gate.Authorize(ctx, claims)
	assert.ErrorIs(t, err, procure.ErrAccountInactive)

	users.AssertExpectations(t)
}

// A staff account denied a manager operation gains access after promotion
// without re-issuing its token: the gate reads the live role, not the claim.
func TestAuthorizePromotionTakesEffectImmediately(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserResolver)
	gate := procure.NewGate(users)

	user := &procure.User{
		ID:       uuid.New(),
		Email:    "alice@hotel.com",
		Role:     procure.RoleStaff,
		IsActive: true,
	}

	ts := procure.NewTokenService(newTestConfig(), nil)
	token, err := ts.Generate(procure.NewIdentityFromUser(user), procure.TokenUseAccess, 30*time.Minute)
	require.NoError(t, err)

	claims, err := ts.Validate(token, procure.TokenUseAccess)
	require.NoError(t, err)

	users.On("GetByUUID", ctx, user.ID).Return(user, nil).Once()
	_, err = gate.Authorize(ctx, claims, procure.RoleManager, procure.RoleAdmin, procure.RoleSuperuser)
	assert.ErrorIs(t, err, procure.ErrForbidden)

	promoted := *user
	promoted.Role = procure.RoleManager

	users.On("GetByUUID", ctx, user.ID).Return(&promoted, nil).Once()
	resolved, err := gate.Authorize(ctx, claims, procure.RoleManager, procure.RoleAdmin, procure.RoleSuperuser)
	require.NoError(t, err)
	assert.Equal(t, procure.RoleManager, resolved.Role)

	users.AssertExpectations(t)
}

func TestAuthorizeBadSubject(t *testing.T) {
	gate := procure.NewGate(new(MockUserResolver))

	claims := &procure.JWTClaims{}
	claims.RegisteredClaims.Subject = "not-a-uuid"

	_, err := gate.Authorize(context.Background(), claims)
	assert.ErrorIs(t, err, procure.ErrTokenMalformed)
}

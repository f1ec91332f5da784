package procure_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	procure "github.com/hotelgrid/procure"
)

func activeUser(t *testing.T, password string) *procure.User {
	t.Helper()

	hash, err := procure.HashPassword(password)
	require.NoError(t, err)

	return &procure.User{
		ID:           uuid.New(),
		Username:     "frontdesk",
		Email:        "frontdesk@hotel.com",
		Role:         procure.RoleStaff,
		PasswordHash: hash,
		IsActive:     true,
	}
}

func TestVerifyIdentitySuccess(t *testing.T) {
	ctx := context.Background()
	tracker := new(MockUserTracker)
	user := activeUser(t, "password123")

	tracker.On("GetByIdentifier", ctx, user.Email).Return(user, nil).Once()
	tracker.On("TrackSuccessfulLogin", ctx, user).Return(nil).Once()

	provider := procure.NewUserProvider(tracker)

	identity, err := provider.VerifyIdentity(ctx, user.Email, "password123")
	require.NoError(t, err)
	require.NotNil(t, identity)

	assert.Equal(t, user.ID.String(), identity.ID())
	assert.Equal(t, user.Email, identity.Email())
	assert.Equal(t, procure.RoleStaff, identity.Role())

	tracker.AssertExpectations(t)
}

func TestVerifyIdentityWrongPassword(t *testing.T) {
	ctx := context.Background()
	tracker := new(MockUserTracker)
	user := activeUser(t, "password123")

	tracker.On("GetByIdentifier", ctx, user.Email).Return(user, nil).Once()
	tracker.On("TrackAttemptedLogin", ctx, user).Return(nil).Once()

	provider := procure.NewUserProvider(tracker)

	_, err := provider.VerifyIdentity(ctx, user.Email, "not-the-password")
	assert.ErrorIs(t, err, procure.ErrMismatchedHashAndPassword)

	tracker.AssertExpectations(t)
}

func TestVerifyIdentityInactiveAccount(t *testing.T) {
	ctx := context.Background()
	tracker := new(MockUserTracker)
	user := activeUser(t, "password123")
	user.IsActive = false

	tracker.On("GetByIdentifier", ctx, user.Email).Return(user, nil).Once()

	provider := procure.NewUserProvider(tracker)

	_, err := provider.VerifyIdentity(ctx, user.Email, "password123")
	assert.ErrorIs(t, err, procure.ErrAccountInactive)

	tracker.AssertExpectations(t)
}

func TestVerifyIdentityTooManyAttempts(t *testing.T) {
	ctx := context.Background()
	tracker := new(MockUserTracker)
	user := activeUser(t, "password123")

	recent := time.Now().Add(-1 * time.Hour)
	user.LoginAttempts = procure.MaxLoginAttempts + 1
	user.LoginAttemptAt = &recent

	tracker.On("GetByIdentifier", ctx, user.Email).Return(user, nil).Once()

	provider := procure.NewUserProvider(tracker)

	_, err := provider.VerifyIdentity(ctx, user.Email, "password123")
	assert.ErrorIs(t, err, procure.ErrTooManyLoginAttempts)

	tracker.AssertExpectations(t)
}

func TestVerifyIdentityCoolDownExpired(t *testing.T) {
	ctx := context.Background()
	tracker := new(MockUserTracker)
	user := activeUser(t, "password123")

	// the last failed attempt is older than the cool down window
	stale := time.Now().Add(-48 * time.Hour)
	user.LoginAttempts = procure.MaxLoginAttempts + 1
	user.LoginAttemptAt = &stale

	tracker.On("GetByIdentifier", ctx, user.Email).Return(user, nil).Once()
	tracker.On("TrackSuccessfulLogin", ctx, user).Return(nil).Once()

	provider := procure.NewUserProvider(tracker)

	identity, err := provider.VerifyIdentity(ctx, user.Email, "password123")
	require.NoError(t, err)
	assert.NotNil(t, identity)

	tracker.AssertExpectations(t)
}

func TestVerifyIdentityUnknownIdentifier(t *testing.T) {
	ctx := context.Background()
	tracker := new(MockUserTracker)

	tracker.On("GetByIdentifier", ctx, "ghost@hotel.com").
		Return(nil, notFoundErr()).Once()

	provider := procure.NewUserProvider(tracker)

	_, err := provider.VerifyIdentity(ctx, "ghost@hotel.com", "password123")
	assert.ErrorIs(t, err, procure.ErrMismatchedHashAndPassword)

	tracker.AssertExpectations(t)
}

func TestFindIdentityByIdentifier(t *testing.T) {
	ctx := context.Background()
	tracker := new(MockUserTracker)
	user := activeUser(t, "password123")

	tracker.On("GetByIdentifier", ctx, user.Email).Return(user, nil).Once()

	provider := procure.NewUserProvider(tracker)

	identity, err := provider.FindIdentityByIdentifier(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.Username, identity.Username())

	tracker.AssertExpectations(t)
}

func TestFindIdentityByIdentifierNotFound(t *testing.T) {
	ctx := context.Background()
	tracker := new(MockUserTracker)

	tracker.On("GetByIdentifier", ctx, "ghost@hotel.com").
		Return(nil, notFoundErr()).Once()

	provider := procure.NewUserProvider(tracker)

	_, err := provider.FindIdentityByIdentifier(ctx, "ghost@hotel.com")
	assert.ErrorIs(t, err, procure.ErrIdentityNotFound)

	tracker.AssertExpectations(t)
}

func TestVerifyIdentityRejectsUnknownRole(t *testing.T) {
	ctx := context.Background()
	tracker := new(MockUserTracker)
	user := activeUser(t, "password123")
	user.Role = "janitor"

	tracker.On("GetByIdentifier", ctx, user.Email).Return(user, nil).Once()
	tracker.On("TrackSuccessfulLogin", ctx, user).Return(nil).Once()

	provider := procure.NewUserProvider(tracker)

	_, err := provider.VerifyIdentity(ctx, user.Email, "password123")
	assert.Error(t, err)

	tracker.AssertExpectations(t)
}

package procure_test

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	procure "github.com/hotelgrid/procure"
)

func notFoundErr() error {
	return goerrors.New("record not found", goerrors.CategoryNotFound)
}

// MockUserTracker implements procure.UserTracker
type MockUserTracker struct {
	mock.Mock
}

func (m *MockUserTracker) GetByIdentifier(ctx context.Context, identifier string) (*procure.User, error) {
	args := m.Called(ctx, identifier)
	user, _ := args.Get(0).(*procure.User)
	return user, args.Error(1)
}

func (m *MockUserTracker) TrackAttemptedLogin(ctx context.Context, user *procure.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserTracker) TrackSuccessfulLogin(ctx context.Context, user *procure.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockUserResolver implements procure.UserResolver
type MockUserResolver struct {
	mock.Mock
}

func (m *MockUserResolver) GetByUUID(ctx context.Context, id uuid.UUID) (*procure.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*procure.User)
	return user, args.Error(1)
}

// MockIdentityProvider implements procure.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, identifier, password string) (procure.Identity, error) {
	args := m.Called(ctx, identifier, password)
	identity, _ := args.Get(0).(procure.Identity)
	return identity, args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (procure.Identity, error) {
	args := m.Called(ctx, identifier)
	identity, _ := args.Get(0).(procure.Identity)
	return identity, args.Error(1)
}

// TestIdentity is a static Identity fixture
type TestIdentity struct {
	id       string
	username string
	email    string
	role     string
}

func (t TestIdentity) ID() string       { return t.id }
func (t TestIdentity) Username() string { return t.username }
func (t TestIdentity) Email() string    { return t.email }
func (t TestIdentity) Role() string     { return t.role }

func newTestConfig() procure.Config {
	return procure.Config{
		SigningKey:       "test-signing-key-0123456789",
		Issuer:           "procure-test",
		AccessTTLMinutes: 30,
		RefreshTTLDays:   7,
	}
}

package procure_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	procure "github.com/hotelgrid/procure"
)

func TestUserContextRoundTrip(t *testing.T) {
	user := &procure.User{ID: uuid.New(), Email: "alice@hotel.com"}

	ctx := procure.WithContext(context.Background(), user)

	got, ok := procure.FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, user, got)
}

func TestFromContextMissing(t *testing.T) {
	_, ok := procure.FromContext(context.Background())
	assert.False(t, ok)
}

func TestClaimsContextRoundTrip(t *testing.T) {
	claims := &procure.JWTClaims{UserRole: procure.RoleManager}

	ctx := procure.WithClaimsContext(context.Background(), claims)

	got, ok := procure.GetClaims(ctx)
	assert.True(t, ok)
	assert.Equal(t, procure.RoleManager, got.Role())
}

func TestClaimsContextMissing(t *testing.T) {
	_, ok := procure.GetClaims(context.Background())
	assert.False(t, ok)
}

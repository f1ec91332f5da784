package procure_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	procure "github.com/hotelgrid/procure"
)

func testIdentity() TestIdentity {
	return TestIdentity{
		id:       uuid.New().String(),
		username: "alice",
		email:    "alice@hotel.com",
		role:     procure.RoleStaff,
	}
}

func TestTokenServiceGenerateAndValidate(t *testing.T) {
	identity := testIdentity()
	ts := procure.NewTokenService(newTestConfig(), nil)

	token, err := ts.Generate(identity, procure.TokenUseAccess, 30*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ts.Validate(token, procure.TokenUseAccess)
	require.NoError(t, err)

	assert.Equal(t, identity.ID(), claims.Subject())
	assert.Equal(t, procure.RoleStaff, claims.Role())
	assert.Equal(t, procure.TokenUseAccess, claims.Use())

	subject, err := claims.SubjectUUID()
	require.NoError(t, err)
	assert.Equal(t, identity.ID(), subject.String())
}

func TestTokenServiceExpiry(t *testing.T) {
	identity := testIdentity()
	issued := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	now := issued
	ts := procure.NewTokenService(newTestConfig(), nil,
		procure.WithTokenClock(func() time.Time { return now }))

	token, err := ts.Generate(identity, procure.TokenUseAccess, 30*time.Minute)
	require.NoError(t, err)

	// still inside its lifetime
	now = issued.Add(29 * time.Minute)
	_, err = ts.Validate(token, procure.TokenUseAccess)
	assert.NoError(t, err)

	// one minute past expiry
	now = issued.Add(31 * time.Minute)
	_, err = ts.Validate(token, procure.TokenUseAccess)
	assert.ErrorIs(t, err, procure.ErrTokenExpired)
	assert.True(t, procure.IsTokenExpiredError(err))
}

func TestTokenServiceRejectsTampering(t *testing.T) {
	identity := testIdentity()
	ts := procure.NewTokenService(newTestConfig(), nil)

	token, err := ts.Generate(identity, procure.TokenUseAccess, 30*time.Minute)
	require.NoError(t, err)

	// flip a character in the signature segment
	tampered := []byte(token)
	last := len(tampered) - 1
	if tampered[last] == 'A' {
		tampered[last] = 'B'
	} else {
		tampered[last] = 'A'
	}

	_, err = ts.Validate(string(tampered), procure.TokenUseAccess)
	assert.Error(t, err)
	assert.True(t, procure.IsMalformedError(err))
}

func TestTokenServiceRejectsForeignKey(t *testing.T) {
	identity := testIdentity()

	cfg := newTestConfig()
	ts := procure.NewTokenService(cfg, nil)

	other := cfg
	other.SigningKey = "a-different-signing-key"
	foreign := procure.NewTokenService(other, nil)

	token, err := foreign.Generate(identity, procure.TokenUseAccess, 30*time.Minute)
	require.NoError(t, err)

	_, err = ts.Validate(token, procure.TokenUseAccess)
	assert.True(t, procure.IsMalformedError(err))
}

func TestTokenServiceEnforcesUse(t *testing.T) {
	identity := testIdentity()
	ts := procure.NewTokenService(newTestConfig(), nil)

	refresh, err := ts.Generate(identity, procure.TokenUseRefresh, 7*24*time.Hour)
	require.NoError(t, err)

	// a refresh token is not a bearer credential
	_, err = ts.Validate(refresh, procure.TokenUseAccess)
	assert.ErrorIs(t, err, procure.ErrTokenWrongType)

	access, err := ts.Generate(identity, procure.TokenUseAccess, 30*time.Minute)
	require.NoError(t, err)

	_, err = ts.Validate(access, procure.TokenUseRefresh)
	assert.ErrorIs(t, err, procure.ErrTokenWrongType)
}

func TestTokenServiceGarbageInput(t *testing.T) {
	ts := procure.NewTokenService(newTestConfig(), nil)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := ts.Validate(tok, procure.TokenUseAccess)
		assert.True(t, procure.IsMalformedError(err), "token %q should be malformed", tok)
	}
}

func TestSignClaimsNil(t *testing.T) {
	ts := procure.NewTokenService(newTestConfig(), nil)
	_, err := ts.SignClaims(nil)
	assert.Error(t, err)
}

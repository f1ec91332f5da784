package bearerware_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hotelgrid/procure/middleware/bearerware"
)

type stubValidator struct{}

func (stubValidator) Validate(token string) (bearerware.AuthClaims, error) {
	return nil, nil
}

func TestGetDefaultConfig(t *testing.T) {
	cfg := bearerware.GetDefaultConfig(bearerware.Config{
		TokenValidator: stubValidator{},
	})

	assert.Equal(t, "user", cfg.ContextKey)
	assert.Equal(t, "auth_user", cfg.UserKey)
	assert.Equal(t, "Bearer", cfg.AuthScheme)
	assert.NotNil(t, cfg.SuccessHandler)
	assert.NotNil(t, cfg.ErrorHandler)
}

func TestGetDefaultConfigRequiresValidator(t *testing.T) {
	assert.Panics(t, func() {
		bearerware.GetDefaultConfig()
	})
}

func TestGetExtractors(t *testing.T) {
	extractors := bearerware.GetExtractors("header:Authorization,cookie:jwt,query:auth_token,param:token")
	assert.Len(t, extractors, 4)

	extractors = bearerware.GetExtractors("header:Authorization")
	assert.Len(t, extractors, 1)

	// unknown sources are ignored
	extractors = bearerware.GetExtractors("body:token")
	assert.Empty(t, extractors)
}

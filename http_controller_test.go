package procure_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	procure "github.com/hotelgrid/procure"
)

func TestLoginRequestValidate(t *testing.T) {
	assert.NoError(t, procure.LoginRequest{
		Identifier: "alice@hotel.com",
		Password:   "Secr3tPW!",
	}.Validate())

	assert.Error(t, procure.LoginRequest{Password: "Secr3tPW!"}.Validate())
	assert.Error(t, procure.LoginRequest{Identifier: "alice@hotel.com"}.Validate())
}

func TestRegisterRequestValidate(t *testing.T) {
	valid := procure.RegisterRequest{
		FirstName:       "Alice",
		LastName:        "Reyes",
		Email:           "alice@hotel.com",
		Role:            procure.RoleStaff,
		Password:        "Secr3tPW!",
		ConfirmPassword: "Secr3tPW!",
	}

	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*procure.RegisterRequest)
	}{
		{"missing first name", func(r *procure.RegisterRequest) { r.FirstName = "" }},
		{"missing last name", func(r *procure.RegisterRequest) { r.LastName = "" }},
		{"bad email", func(r *procure.RegisterRequest) { r.Email = "not-an-email" }},
		{"unknown role", func(r *procure.RegisterRequest) { r.Role = "janitor" }},
		{"elevated role rejected", func(r *procure.RegisterRequest) { r.Role = procure.RoleAdmin }},
		{"short password", func(r *procure.RegisterRequest) { r.Password = "short"; r.ConfirmPassword = "short" }},
		{"password mismatch", func(r *procure.RegisterRequest) { r.ConfirmPassword = "Different1!" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := valid
			tt.mutate(&payload)
			assert.Error(t, payload.Validate())
		})
	}
}

func TestRefreshRequestValidate(t *testing.T) {
	assert.NoError(t, procure.RefreshRequest{RefreshToken: "some-token"}.Validate())
	assert.Error(t, procure.RefreshRequest{}.Validate())
}

func TestValidateStringEquals(t *testing.T) {
	rule := procure.ValidateStringEquals("expected")
	assert.NoError(t, rule("expected"))
	assert.Error(t, rule("other"))
	assert.Error(t, rule(42))
}

func TestNewUserResponse(t *testing.T) {
	now := time.Now()
	user := &procure.User{
		ID:           uuid.New(),
		FirstName:    "Alice",
		LastName:     "Reyes",
		Username:     "alice",
		Email:        "alice@hotel.com",
		Phone:        "+12025550123",
		Department:   "housekeeping",
		Role:         procure.RoleStaff,
		PasswordHash: "$2a$12$notleaked",
		IsActive:     true,
		LastLoginAt:  &now,
	}

	resp := procure.NewUserResponse(user)

	assert.Equal(t, user.ID.String(), resp.ID)
	assert.Equal(t, "alice@hotel.com", resp.Email)
	assert.Equal(t, "+12025550123", resp.PhoneNumber)
	assert.Equal(t, procure.RoleStaff, resp.UserRole)
	assert.True(t, resp.IsActive)

	assert.Nil(t, procure.NewUserResponse(nil))
}

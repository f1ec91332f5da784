package procure_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	procure "github.com/hotelgrid/procure"
)

func TestRoleIsAtLeast(t *testing.T) {
	tests := []struct {
		name    string
		role    procure.UserRole
		minRole procure.UserRole
		want    bool
	}{
		{"staff meets staff", procure.RoleStaff, procure.RoleStaff, true},
		{"staff below manager", procure.RoleStaff, procure.RoleManager, false},
		{"manager meets manager", procure.RoleManager, procure.RoleManager, true},
		{"manager below admin", procure.RoleManager, procure.RoleAdmin, false},
		{"admin above manager", procure.RoleAdmin, procure.RoleManager, true},
		{"superuser above admin", procure.RoleSuperuser, procure.RoleAdmin, true},
		{"unknown role never passes", "intern", procure.RoleStaff, false},
		{"unknown minimum never passes", procure.RoleAdmin, "owner", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, procure.RoleIsAtLeast(tt.role, tt.minRole))
		})
	}
}

func TestParseRole(t *testing.T) {
	for _, role := range procure.GetAllRoles() {
		parsed, ok := procure.ParseRole(string(role))
		assert.True(t, ok)
		assert.Equal(t, role, parsed)
	}

	_, ok := procure.ParseRole("janitor")
	assert.False(t, ok)

	_, ok = procure.ParseRole("")
	assert.False(t, ok)
}

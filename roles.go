package procure

// IsValid checks if the role is one of the predefined valid roles
func roleIsValid(r UserRole) bool {
	switch r {
	case RoleStaff, RoleManager, RoleAdmin, RoleSuperuser:
		return true
	default:
		return false
	}
}

var roleHierarchy = map[UserRole]int{
	RoleStaff:     0,
	RoleManager:   1,
	RoleAdmin:     2,
	RoleSuperuser: 3,
}

// RoleIsAtLeast checks if a role meets the minimum required level
func RoleIsAtLeast(r, minRole UserRole) bool {
	currentLevel, exists := roleHierarchy[r]
	if !exists {
		return false
	}

	minLevel, exists := roleHierarchy[minRole]
	if !exists {
		return false
	}

	return currentLevel >= minLevel
}

// GetAllRoles returns all predefined roles in hierarchical order
func GetAllRoles() []UserRole {
	return []UserRole{
		RoleStaff,
		RoleManager,
		RoleAdmin,
		RoleSuperuser,
	}
}

// ParseRole safely parses a string into a UserRole type
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, roleIsValid(role)
}

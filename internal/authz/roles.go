package authz

import "sira/internal/models"

// CanUseMode reports whether a profile role may view the marketplace through
// the given mode. Any role may browse as a customer; the tasker lens needs
// the tasker or both role.
func CanUseMode(role models.Role, mode models.Mode) bool {
	switch mode {
	case models.ModeCustomer:
		return true
	case models.ModeTasker:
		return role == models.RoleTasker || role == models.RoleBoth
	default:
		return false
	}
}

// IsTasker reports whether the role can take on work.
func IsTasker(role models.Role) bool {
	return role == models.RoleTasker || role == models.RoleBoth
}

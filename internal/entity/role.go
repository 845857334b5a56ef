package entity

import "fmt"

// Role 员工角色，与远端 API 的 roleID 一一对应。
type Role int

const (
	RoleUnset        Role = 0
	RoleMorningShift Role = 1
	RoleNightShift   Role = 2
	RoleAdmin        Role = 3
)

// AssignableRoles lists the roles an admin can pick when inviting an employee.
var AssignableRoles = []Role{RoleMorningShift, RoleNightShift, RoleAdmin}

// ParseRole converts a wire roleID into a Role.
func ParseRole(id int) (Role, error) {
	role := Role(id)
	switch role {
	case RoleUnset, RoleMorningShift, RoleNightShift, RoleAdmin:
		return role, nil
	default:
		return RoleUnset, fmt.Errorf("unknown role id %d", id)
	}
}

// IsEmployee reports whether the role lands on the employee menu.
func (r Role) IsEmployee() bool {
	switch r {
	case RoleMorningShift, RoleNightShift:
		return true
	case RoleUnset, RoleAdmin:
		return false
	default:
		return false
	}
}

// IsAdmin reports whether the role lands on the admin menu.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Label returns the default display label used in the role picker.
func (r Role) Label() string {
	switch r {
	case RoleUnset:
		return "Choose role......"
	case RoleMorningShift:
		return "Morning Shift"
	case RoleNightShift:
		return "Night Shift"
	case RoleAdmin:
		return "Admin"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

func (r Role) String() string {
	return r.Label()
}

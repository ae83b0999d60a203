package models

import "strings"

// Role is the closed set of actors known to the portal.
type Role string

const (
	RoleStudent  Role = "student"
	RoleLecturer Role = "lecturer"
	RolePRL      Role = "PRL"
	RolePL       Role = "PL"
)

// Roles lists every valid role in hierarchy order.
var Roles = []Role{RoleStudent, RoleLecturer, RolePRL, RolePL}

// ParseRole maps a client supplied role onto the canonical value, ignoring case.
func ParseRole(raw string) (Role, bool) {
	trimmed := strings.TrimSpace(raw)
	for _, r := range Roles {
		if strings.EqualFold(trimmed, string(r)) {
			return r, true
		}
	}
	return "", false
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleLecturer, RolePRL, RolePL:
		return true
	default:
		return false
	}
}

// IsStaff is true for every non-student role.
func (r Role) IsStaff() bool {
	switch r {
	case RoleLecturer, RolePRL, RolePL:
		return true
	default:
		return false
	}
}

// TeachesInStreams is true for roles linked to streams through lecturer_streams.
func (r Role) TeachesInStreams() bool {
	return r == RoleLecturer || r == RolePRL
}

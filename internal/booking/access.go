package booking

import "strings"

// Role is the caller's role as carried in the verified claim set. Role
// strings are parsed case-insensitively; capability checks never compare
// raw strings.
type Role string

const (
	RoleSuperAdmin Role = "SUPERADMIN"
	RoleStaff      Role = "STAFF"
	RolePatient    Role = "PATIENT"
)

// Capability is a single permitted action.
type Capability string

const (
	// CapViewAll grants visibility over every booking row.
	CapViewAll Capability = "bookings:view-all"
	// CapTransition grants confirming and cancelling bookings.
	CapTransition Capability = "bookings:transition"
	// CapCreate grants submitting new bookings.
	CapCreate Capability = "bookings:create"
)

var rolePermissions = map[Role]map[Capability]struct{}{
	RoleSuperAdmin: {
		CapViewAll:    {},
		CapTransition: {},
		CapCreate:     {},
	},
	RoleStaff: {
		CapViewAll:    {},
		CapTransition: {},
	},
	RolePatient: {
		CapCreate: {},
	},
}

// ParseRole normalizes a claim role string. Unrecognized roles fall back to
// the patient capability set, which grants nothing beyond self-service.
func ParseRole(s string) Role {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleSuperAdmin:
		return RoleSuperAdmin
	case RoleStaff:
		return RoleStaff
	}
	return RolePatient
}

// Caller is the verified identity attached to an inbound request.
type Caller struct {
	Email string
	Role  Role
}

// Can reports whether the caller holds the capability. A nil caller holds
// none.
func (c *Caller) Can(cap Capability) bool {
	if c == nil {
		return false
	}
	_, ok := rolePermissions[c.Role][cap]
	return ok
}

// ListFilter restricts which rows a list query returns. The zero value
// matches nothing; repositories must treat None as an empty result.
type ListFilter struct {
	// None short-circuits to an empty result set.
	None bool
	// Email, when non-empty, restricts rows to an exact (case-sensitive)
	// email match.
	Email string
	// Status, when non-empty, narrows by exact status match.
	Status Status
}

// FilterFor derives the row-visibility filter for a caller. Absence of a
// caller fails closed to an empty result set, never an error.
func FilterFor(caller *Caller, status Status) ListFilter {
	if caller == nil {
		return ListFilter{None: true}
	}
	f := ListFilter{Status: status}
	if !caller.Can(CapViewAll) {
		f.Email = caller.Email
	}
	return f
}

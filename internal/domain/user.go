package domain

import "time"

// Role enumerates the account roles known to the service.
type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleUser       Role = "user"
	RoleDriver     Role = "driver"
	RoleClient     Role = "client"
)

// AllRoles lists every role in privilege order.
var AllRoles = []Role{RoleSuperAdmin, RoleAdmin, RoleUser, RoleDriver, RoleClient}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// IsAdmin reports whether r is superadmin or admin.
func (r Role) IsAdmin() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}

// User is the stored account record.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Role         Role
	Province     *string
	Branch       *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor is the authenticated caller, loaded fresh from the user store for each request.
type Actor struct {
	ID       string
	Role     Role
	Province string
	Branch   string
}

// Actor projects the user onto the identity used by permission checks.
func (u *User) Actor() Actor {
	actor := Actor{ID: u.ID, Role: u.Role}
	if u.Province != nil {
		actor.Province = *u.Province
	}
	if u.Branch != nil {
		actor.Branch = *u.Branch
	}
	return actor
}

package roles

import "time"

// Role represents a named bundle of permissions.
type Role struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RolePermissions pairs a role with the names of the permissions it holds.
type RolePermissions struct {
	Role        Role
	Permissions []string
}

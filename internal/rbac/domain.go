package rbac

// Permission represents an atomic capability, e.g. "create_role".
type Permission struct {
	ID          int64
	Name        string
	Description string
}

// Assignment ties a permission to a role. The role_permissions relation
// is the sole authorization source of truth.
type Assignment struct {
	RoleID       int64
	PermissionID int64
}

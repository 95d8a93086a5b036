package roles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/meridian-commerce/meridian/internal/shared"
)

// RepositoryPort defines data access methods for roles.
type RepositoryPort interface {
	ListRoles(ctx context.Context) ([]Role, error)
	GetRole(ctx context.Context, id int64) (Role, error)
	CreateRole(ctx context.Context, name, description string) (Role, error)
	UpdateRole(ctx context.Context, id int64, name, description string) (Role, error)
	DeleteRole(ctx context.Context, id int64) error
	ListRolePermissionNames(ctx context.Context, roleID int64) ([]string, error)
	ReplacePermissions(ctx context.Context, roleID int64, permissionIDs []int64) error
	ResolvePermissionIDs(ctx context.Context, names []string) ([]int64, error)
}

// Service handles role business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListRoles returns all roles.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

// GetRole returns a role with its permission names.
func (s *Service) GetRole(ctx context.Context, id int64) (RolePermissions, error) {
	role, err := s.repo.GetRole(ctx, id)
	if err != nil {
		return RolePermissions{}, err
	}
	names, err := s.repo.ListRolePermissionNames(ctx, id)
	if err != nil {
		return RolePermissions{}, err
	}
	return RolePermissions{Role: role, Permissions: names}, nil
}

// CreateRole inserts a new role.
func (s *Service) CreateRole(ctx context.Context, name, description string) (Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Role{}, errors.New("roles: role name required")
	}
	return s.repo.CreateRole(ctx, name, strings.TrimSpace(description))
}

// UpdateRole updates an existing role.
func (s *Service) UpdateRole(ctx context.Context, id int64, name, description string) (Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Role{}, errors.New("roles: role name required")
	}
	return s.repo.UpdateRole(ctx, id, name, strings.TrimSpace(description))
}

// DeleteRole removes a role.
func (s *Service) DeleteRole(ctx context.Context, id int64) error {
	return s.repo.DeleteRole(ctx, id)
}

// SetPermissions replaces a role's permission set by name. Unknown names
// fail the whole operation rather than being skipped.
func (s *Service) SetPermissions(ctx context.Context, roleID int64, names []string) error {
	if _, err := s.repo.GetRole(ctx, roleID); err != nil {
		return err
	}
	ids, err := s.repo.ResolvePermissionIDs(ctx, names)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return fmt.Errorf("%w: unknown permission name", shared.ErrNotFound)
		}
		return err
	}
	return s.repo.ReplacePermissions(ctx, roleID, ids)
}

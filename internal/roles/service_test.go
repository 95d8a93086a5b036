package roles

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-commerce/meridian/internal/shared"
)

type stubRepo struct {
	roles       map[int64]Role
	permissions map[string]int64
	assigned    map[int64][]int64
	nextID      int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		roles:       make(map[int64]Role),
		permissions: map[string]int64{"read_role": 1, "create_role": 2},
		assigned:    make(map[int64][]int64),
	}
}

func (s *stubRepo) ListRoles(context.Context) ([]Role, error) {
	out := make([]Role, 0, len(s.roles))
	for _, r := range s.roles {
		out = append(out, r)
	}
	return out, nil
}

func (s *stubRepo) GetRole(_ context.Context, id int64) (Role, error) {
	r, ok := s.roles[id]
	if !ok {
		return Role{}, shared.ErrNotFound
	}
	return r, nil
}

func (s *stubRepo) CreateRole(_ context.Context, name, description string) (Role, error) {
	for _, r := range s.roles {
		if r.Name == name {
			return Role{}, shared.ErrDuplicate
		}
	}
	s.nextID++
	role := Role{ID: s.nextID, Name: name, Description: description, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	s.roles[role.ID] = role
	return role, nil
}

func (s *stubRepo) UpdateRole(_ context.Context, id int64, name, description string) (Role, error) {
	r, ok := s.roles[id]
	if !ok {
		return Role{}, shared.ErrNotFound
	}
	r.Name = name
	r.Description = description
	s.roles[id] = r
	return r, nil
}

func (s *stubRepo) DeleteRole(_ context.Context, id int64) error {
	if _, ok := s.roles[id]; !ok {
		return shared.ErrNotFound
	}
	delete(s.roles, id)
	return nil
}

func (s *stubRepo) ListRolePermissionNames(_ context.Context, roleID int64) ([]string, error) {
	var names []string
	for _, id := range s.assigned[roleID] {
		for name, pid := range s.permissions {
			if pid == id {
				names = append(names, name)
			}
		}
	}
	return names, nil
}

func (s *stubRepo) ReplacePermissions(_ context.Context, roleID int64, permissionIDs []int64) error {
	s.assigned[roleID] = permissionIDs
	return nil
}

func (s *stubRepo) ResolvePermissionIDs(_ context.Context, names []string) ([]int64, error) {
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		id, ok := s.permissions[name]
		if !ok {
			return nil, shared.ErrNotFound
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func TestCreateRoleTrimsAndValidatesName(t *testing.T) {
	svc := NewService(newStubRepo())

	role, err := svc.CreateRole(context.Background(), "  auditor  ", " reads things ")
	require.NoError(t, err)
	assert.Equal(t, "auditor", role.Name)
	assert.Equal(t, "reads things", role.Description)

	_, err = svc.CreateRole(context.Background(), "   ", "")
	assert.Error(t, err)
}

func TestCreateRoleRejectsDuplicateName(t *testing.T) {
	svc := NewService(newStubRepo())

	_, err := svc.CreateRole(context.Background(), "auditor", "")
	require.NoError(t, err)
	_, err = svc.CreateRole(context.Background(), "auditor", "")
	assert.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestSetPermissionsReplacesAssignments(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)

	role, err := svc.CreateRole(context.Background(), "auditor", "")
	require.NoError(t, err)

	require.NoError(t, svc.SetPermissions(context.Background(), role.ID, []string{"read_role", "create_role"}))

	rp, err := svc.GetRole(context.Background(), role.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"read_role", "create_role"}, rp.Permissions)

	require.NoError(t, svc.SetPermissions(context.Background(), role.ID, []string{"read_role"}))
	rp, err = svc.GetRole(context.Background(), role.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"read_role"}, rp.Permissions)
}

func TestSetPermissionsFailsOnUnknownName(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)

	role, err := svc.CreateRole(context.Background(), "auditor", "")
	require.NoError(t, err)

	err = svc.SetPermissions(context.Background(), role.ID, []string{"read_role", "no_such_permission"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Empty(t, repo.assigned[role.ID], "failed update must not partially apply")
}

func TestSetPermissionsUnknownRole(t *testing.T) {
	svc := NewService(newStubRepo())
	err := svc.SetPermissions(context.Background(), 99, []string{"read_role"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

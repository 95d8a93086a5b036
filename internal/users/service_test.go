package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-commerce/meridian/internal/shared"
)

type stubRepo struct {
	roles     map[string]int64
	created   []User
	lastHash  string
	listTotal int
}

func (s *stubRepo) CreateUser(_ context.Context, user NewUser, passwordHash string, roleID int64) (User, error) {
	for _, u := range s.created {
		if u.Username == user.Username {
			return User{}, shared.ErrDuplicate
		}
	}
	s.lastHash = passwordHash
	created := User{
		ID:       int64(len(s.created) + 1),
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		RoleID:   roleID,
	}
	s.created = append(s.created, created)
	return created, nil
}

func (s *stubRepo) GetUser(_ context.Context, id int64) (User, error) {
	for _, u := range s.created {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, shared.ErrNotFound
}

func (s *stubRepo) ListUsers(_ context.Context, limit, offset int) ([]User, int, error) {
	end := offset + limit
	if end > len(s.created) {
		end = len(s.created)
	}
	if offset > len(s.created) {
		offset = len(s.created)
	}
	return s.created[offset:end], s.listTotal, nil
}

func (s *stubRepo) GetRoleIDByName(_ context.Context, name string) (int64, error) {
	id, ok := s.roles[name]
	if !ok {
		return 0, shared.ErrNotFound
	}
	return id, nil
}

func TestRegisterHashesPasswordAndAssignsDefaultRole(t *testing.T) {
	repo := &stubRepo{roles: map[string]int64{DefaultRoleName: 7}}
	svc := NewService(repo)

	user, err := svc.Register(context.Background(), NewUser{
		Username: "kara",
		Email:    "kara@example.com",
		Password: "sw0rdfish-long",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.RoleID)
	assert.NotEqual(t, "sw0rdfish-long", repo.lastHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.lastHash), []byte("sw0rdfish-long")))
}

func TestRegisterFailsWithoutDefaultRole(t *testing.T) {
	svc := NewService(&stubRepo{roles: map[string]int64{}})

	_, err := svc.Register(context.Background(), NewUser{Username: "kara", Password: "x"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRegisterPropagatesDuplicate(t *testing.T) {
	repo := &stubRepo{roles: map[string]int64{DefaultRoleName: 7}}
	svc := NewService(repo)

	_, err := svc.Register(context.Background(), NewUser{Username: "kara", Password: "a-password"})
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), NewUser{Username: "kara", Password: "a-password"})
	assert.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestListUsersReturnsPaginationMetadata(t *testing.T) {
	repo := &stubRepo{roles: map[string]int64{DefaultRoleName: 7}, listTotal: 45}
	svc := NewService(repo)

	_, page, err := svc.ListUsers(context.Background(), 2, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 45, page.Total)
	assert.Equal(t, 3, page.TotalPages)
}

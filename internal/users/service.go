package users

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-commerce/meridian/internal/shared"
)

// DefaultRoleName is attached to self-registered accounts.
const DefaultRoleName = "customer"

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	CreateUser(ctx context.Context, user NewUser, passwordHash string, roleID int64) (User, error)
	GetUser(ctx context.Context, id int64) (User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]User, int, error)
	GetRoleIDByName(ctx context.Context, name string) (int64, error)
}

// Service handles user business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Register creates an account with the default role. Password hashing is
// the only place the plaintext password is touched.
func (s *Service) Register(ctx context.Context, user NewUser) (User, error) {
	roleID, err := s.repo.GetRoleIDByName(ctx, DefaultRoleName)
	if err != nil {
		return User{}, fmt.Errorf("users: resolve default role: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("users: hash password: %w", err)
	}
	return s.repo.CreateUser(ctx, user, string(hash), roleID)
}

// GetUser returns one user.
func (s *Service) GetUser(ctx context.Context, id int64) (User, error) {
	return s.repo.GetUser(ctx, id)
}

// ListUsers returns a page of users with pagination metadata.
func (s *Service) ListUsers(ctx context.Context, page, perPage int) ([]User, shared.Pagination, error) {
	p := shared.NewPagination(page, perPage, 0)
	users, total, err := s.repo.ListUsers(ctx, p.PerPage, p.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return users, shared.NewPagination(page, perPage, total), nil
}

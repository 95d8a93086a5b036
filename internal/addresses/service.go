package addresses

import (
	"context"
	"errors"
	"fmt"

	"github.com/meridian-commerce/meridian/internal/shared"
)

// DefaultMaxPerUser caps how many addresses one account may keep.
const DefaultMaxPerUser = 5

// ErrLimitReached is returned when a user already holds the maximum
// number of addresses.
var ErrLimitReached = errors.New("maximum address limit reached")

// RepositoryPort defines data access methods for addresses.
type RepositoryPort interface {
	CreateAddress(ctx context.Context, userID int64, addr NewAddress) (Address, error)
	GetAddress(ctx context.Context, userID, id int64) (Address, error)
	ListAddresses(ctx context.Context, userID int64, limit, offset int) ([]Address, int, error)
	UpdateAddress(ctx context.Context, userID, id int64, addr NewAddress) (Address, error)
	DeleteAddress(ctx context.Context, userID, id int64) error
	CountAddresses(ctx context.Context, userID int64) (int, error)
}

// Service handles address business logic.
type Service struct {
	repo       RepositoryPort
	maxPerUser int
}

// NewService builds a Service. maxPerUser <= 0 falls back to
// DefaultMaxPerUser.
func NewService(repo RepositoryPort, maxPerUser int) *Service {
	if maxPerUser <= 0 {
		maxPerUser = DefaultMaxPerUser
	}
	return &Service{repo: repo, maxPerUser: maxPerUser}
}

// Create stores a new address for the user, enforcing the per-user cap.
func (s *Service) Create(ctx context.Context, userID int64, addr NewAddress) (Address, error) {
	count, err := s.repo.CountAddresses(ctx, userID)
	if err != nil {
		return Address{}, fmt.Errorf("addresses: count for user %d: %w", userID, err)
	}
	if count >= s.maxPerUser {
		return Address{}, ErrLimitReached
	}
	return s.repo.CreateAddress(ctx, userID, addr)
}

// Get returns one of the user's addresses.
func (s *Service) Get(ctx context.Context, userID, id int64) (Address, error) {
	return s.repo.GetAddress(ctx, userID, id)
}

// List returns a page of the user's addresses with pagination metadata.
func (s *Service) List(ctx context.Context, userID int64, page, perPage int) ([]Address, shared.Pagination, error) {
	p := shared.NewPagination(page, perPage, 0)
	items, total, err := s.repo.ListAddresses(ctx, userID, p.PerPage, p.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(page, perPage, total), nil
}

// Update replaces one of the user's addresses.
func (s *Service) Update(ctx context.Context, userID, id int64, addr NewAddress) (Address, error) {
	return s.repo.UpdateAddress(ctx, userID, id, addr)
}

// Delete removes one of the user's addresses.
func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	return s.repo.DeleteAddress(ctx, userID, id)
}

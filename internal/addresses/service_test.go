package addresses

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-commerce/meridian/internal/shared"
)

type memoryRepo struct {
	nextID int64
	items  map[int64]Address
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, items: map[int64]Address{}}
}

func (m *memoryRepo) CreateAddress(_ context.Context, userID int64, addr NewAddress) (Address, error) {
	created := Address{
		ID: m.nextID, UserID: userID,
		Name: addr.Name, Address: addr.Address, City: addr.City,
		State: addr.State, Country: addr.Country, Pincode: addr.Pincode,
	}
	m.items[m.nextID] = created
	m.nextID++
	return created, nil
}

func (m *memoryRepo) GetAddress(_ context.Context, userID, id int64) (Address, error) {
	addr, ok := m.items[id]
	if !ok || addr.UserID != userID {
		return Address{}, shared.ErrNotFound
	}
	return addr, nil
}

func (m *memoryRepo) ListAddresses(_ context.Context, userID int64, limit, offset int) ([]Address, int, error) {
	var owned []Address
	for id := int64(1); id < m.nextID; id++ {
		if addr, ok := m.items[id]; ok && addr.UserID == userID {
			owned = append(owned, addr)
		}
	}
	total := len(owned)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return owned[offset:end], total, nil
}

func (m *memoryRepo) UpdateAddress(ctx context.Context, userID, id int64, addr NewAddress) (Address, error) {
	existing, err := m.GetAddress(ctx, userID, id)
	if err != nil {
		return Address{}, err
	}
	existing.Name = addr.Name
	existing.Address = addr.Address
	existing.City = addr.City
	existing.State = addr.State
	existing.Country = addr.Country
	existing.Pincode = addr.Pincode
	m.items[id] = existing
	return existing, nil
}

func (m *memoryRepo) DeleteAddress(ctx context.Context, userID, id int64) error {
	if _, err := m.GetAddress(ctx, userID, id); err != nil {
		return err
	}
	delete(m.items, id)
	return nil
}

func (m *memoryRepo) CountAddresses(_ context.Context, userID int64) (int, error) {
	count := 0
	for _, addr := range m.items {
		if addr.UserID == userID {
			count++
		}
	}
	return count, nil
}

func homeAddress() NewAddress {
	return NewAddress{
		Name: "home", Address: "12 Harbor Lane", City: "Portsmouth",
		State: "Hampshire", Country: "United Kingdom", Pincode: "PO1 2AB",
	}
}

func TestCreateEnforcesPerUserLimit(t *testing.T) {
	repo := newMemoryRepo()
	service := NewService(repo, 0)

	ctx := context.Background()
	for i := 0; i < DefaultMaxPerUser; i++ {
		_, err := service.Create(ctx, 1, homeAddress())
		require.NoError(t, err)
	}

	_, err := service.Create(ctx, 1, homeAddress())
	assert.ErrorIs(t, err, ErrLimitReached)

	// The cap is per user, so a different account is unaffected.
	_, err = service.Create(ctx, 2, homeAddress())
	assert.NoError(t, err)
}

func TestAddressAccessIsScopedToOwner(t *testing.T) {
	repo := newMemoryRepo()
	service := NewService(repo, 0)

	ctx := context.Background()
	created, err := service.Create(ctx, 1, homeAddress())
	require.NoError(t, err)

	_, err = service.Get(ctx, 2, created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = service.Update(ctx, 2, created.ID, homeAddress())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	err = service.Delete(ctx, 2, created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	got, err := service.Get(ctx, 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestUpdateReplacesFields(t *testing.T) {
	repo := newMemoryRepo()
	service := NewService(repo, 0)

	ctx := context.Background()
	created, err := service.Create(ctx, 1, homeAddress())
	require.NoError(t, err)

	updated, err := service.Update(ctx, 1, created.ID, NewAddress{
		Name: "office", Address: "1 Quay Street", City: "Bristol",
		State: "Avon", Country: "United Kingdom", Pincode: "BS1 4QA",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "office", updated.Name)
	assert.Equal(t, "Bristol", updated.City)
}

func TestListReturnsPaginationMetadata(t *testing.T) {
	repo := newMemoryRepo()
	service := NewService(repo, 10)

	ctx := context.Background()
	for i := 0; i < 7; i++ {
		_, err := service.Create(ctx, 1, homeAddress())
		require.NoError(t, err)
	}
	_, err := service.Create(ctx, 2, homeAddress())
	require.NoError(t, err)

	items, pagination, err := service.List(ctx, 1, 2, 3)
	require.NoError(t, err)
	assert.Len(t, items, 3, "second page of three")
	assert.Equal(t, 2, pagination.Page)
	assert.Equal(t, 3, pagination.PerPage)
	assert.Equal(t, 7, pagination.Total, "other users' addresses are excluded")
	assert.Equal(t, 3, pagination.TotalPages)
}

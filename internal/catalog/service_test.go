package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-commerce/meridian/internal/shared"
)

type fakeRepo struct {
	categories map[int64]Category
	products   []Product
	listCalls  int
	nextID     int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{categories: map[int64]Category{1: {ID: 1, Name: "Apparel"}}, nextID: 1}
}

func (f *fakeRepo) ListCategories(context.Context) ([]Category, error) {
	out := make([]Category, 0, len(f.categories))
	for _, c := range f.categories {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeRepo) GetCategory(_ context.Context, id int64) (Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return Category{}, shared.ErrNotFound
	}
	return c, nil
}

func (f *fakeRepo) CreateCategory(_ context.Context, name string) (Category, error) {
	f.nextID++
	c := Category{ID: f.nextID, Name: name}
	f.categories[c.ID] = c
	return c, nil
}

func (f *fakeRepo) DeleteCategory(_ context.Context, id int64) error {
	if _, ok := f.categories[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.categories, id)
	return nil
}

func (f *fakeRepo) ListSubCategories(context.Context, int64) ([]SubCategory, error) {
	return nil, nil
}

func (f *fakeRepo) GetSubCategory(context.Context, int64) (SubCategory, error) {
	return SubCategory{}, shared.ErrNotFound
}

func (f *fakeRepo) CreateSubCategory(_ context.Context, name string, categoryID int64) (SubCategory, error) {
	f.nextID++
	return SubCategory{ID: f.nextID, Name: name, CategoryID: categoryID}, nil
}

func (f *fakeRepo) DeleteSubCategory(context.Context, int64) error { return nil }

func (f *fakeRepo) ListProducts(_ context.Context, _ ProductFilter, limit, offset int) ([]Product, int, error) {
	f.listCalls++
	end := offset + limit
	if end > len(f.products) {
		end = len(f.products)
	}
	if offset > len(f.products) {
		offset = len(f.products)
	}
	return f.products[offset:end], len(f.products), nil
}

func (f *fakeRepo) GetProduct(_ context.Context, id int64) (Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, shared.ErrNotFound
}

func (f *fakeRepo) GetProductBySlug(_ context.Context, slug string) (Product, error) {
	for _, p := range f.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Product{}, shared.ErrNotFound
}

func (f *fakeRepo) CreateProduct(_ context.Context, p Product) (Product, error) {
	f.nextID++
	p.ID = f.nextID
	f.products = append(f.products, p)
	return p, nil
}

func (f *fakeRepo) UpdateProduct(_ context.Context, p Product) (Product, error) {
	for i := range f.products {
		if f.products[i].ID == p.ID {
			f.products[i] = p
			return p, nil
		}
	}
	return Product{}, shared.ErrNotFound
}

func (f *fakeRepo) DeleteProduct(_ context.Context, id int64) error {
	for i := range f.products {
		if f.products[i].ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

func seedProducts(repo *fakeRepo, n int) {
	for i := 0; i < n; i++ {
		repo.products = append(repo.products, Product{
			ID:         int64(1000 + i),
			Name:       fmt.Sprintf("Product %d", i),
			Price:      "19.99",
			Slug:       fmt.Sprintf("product-%d", i),
			CategoryID: 1,
			IsActive:   true,
		})
	}
}

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestListProductsCachesPages(t *testing.T) {
	repo := newFakeRepo()
	seedProducts(repo, 5)
	svc := NewService(repo, NewCache(testRedis(t), time.Minute))

	first, err := svc.ListProducts(context.Background(), ProductFilter{ActiveOnly: true}, 1, 20)
	require.NoError(t, err)
	assert.Len(t, first.Products, 5)
	assert.Equal(t, 5, first.Pagination.Total)

	second, err := svc.ListProducts(context.Background(), ProductFilter{ActiveOnly: true}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.listCalls, "second read should come from cache")
}

func TestProductWritesInvalidateCache(t *testing.T) {
	repo := newFakeRepo()
	seedProducts(repo, 2)
	svc := NewService(repo, NewCache(testRedis(t), time.Minute))

	_, err := svc.ListProducts(context.Background(), ProductFilter{}, 1, 20)
	require.NoError(t, err)

	_, err = svc.CreateProduct(context.Background(), Product{
		Name: "New", Price: "5.00", Slug: "new", CategoryID: 1, IsActive: true,
	})
	require.NoError(t, err)

	page, err := svc.ListProducts(context.Background(), ProductFilter{}, 1, 20)
	require.NoError(t, err)
	assert.Len(t, page.Products, 3)
	assert.Equal(t, 2, repo.listCalls)
}

func TestListProductsDistinctFiltersGetDistinctEntries(t *testing.T) {
	repo := newFakeRepo()
	seedProducts(repo, 3)
	svc := NewService(repo, NewCache(testRedis(t), time.Minute))

	_, err := svc.ListProducts(context.Background(), ProductFilter{CategoryID: 1}, 1, 20)
	require.NoError(t, err)
	_, err = svc.ListProducts(context.Background(), ProductFilter{CategoryID: 2}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
}

func TestListProductsSurvivesRedisOutage(t *testing.T) {
	repo := newFakeRepo()
	seedProducts(repo, 1)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mr.Close()

	svc := NewService(repo, NewCache(client, time.Minute))
	page, err := svc.ListProducts(context.Background(), ProductFilter{}, 1, 20)
	require.NoError(t, err)
	assert.Len(t, page.Products, 1)
}

func TestListProductsWithoutCache(t *testing.T) {
	repo := newFakeRepo()
	seedProducts(repo, 1)
	svc := NewService(repo, NewCache(nil, 0))

	page, err := svc.ListProducts(context.Background(), ProductFilter{}, 1, 20)
	require.NoError(t, err)
	assert.Len(t, page.Products, 1)
}

func TestCreateSubCategoryRequiresCategory(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, NewCache(nil, 0))

	_, err := svc.CreateSubCategory(context.Background(), "Shoes", 99)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	sub, err := svc.CreateSubCategory(context.Background(), "Shoes", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), sub.CategoryID)
}

func TestCreateCategoryRejectsBlankName(t *testing.T) {
	svc := NewService(newFakeRepo(), NewCache(nil, 0))
	_, err := svc.CreateCategory(context.Background(), "   ")
	assert.Error(t, err)
}

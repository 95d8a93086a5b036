package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/meridian-commerce/meridian/internal/shared"
)

// RepositoryPort defines data access methods for the catalog.
type RepositoryPort interface {
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id int64) (Category, error)
	CreateCategory(ctx context.Context, name string) (Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	ListSubCategories(ctx context.Context, categoryID int64) ([]SubCategory, error)
	GetSubCategory(ctx context.Context, id int64) (SubCategory, error)
	CreateSubCategory(ctx context.Context, name string, categoryID int64) (SubCategory, error)
	DeleteSubCategory(ctx context.Context, id int64) error

	ListProducts(ctx context.Context, filter ProductFilter, limit, offset int) ([]Product, int, error)
	GetProduct(ctx context.Context, id int64) (Product, error)
	GetProductBySlug(ctx context.Context, slug string) (Product, error)
	CreateProduct(ctx context.Context, p Product) (Product, error)
	UpdateProduct(ctx context.Context, p Product) (Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Products   []Product         `json:"products"`
	Pagination shared.Pagination `json:"pagination"`
}

// Service handles catalog business logic.
type Service struct {
	repo  RepositoryPort
	cache *Cache
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// ListCategories returns all categories.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

// GetCategory returns one category.
func (s *Service) GetCategory(ctx context.Context, id int64) (Category, error) {
	return s.repo.GetCategory(ctx, id)
}

// CreateCategory inserts a new category.
func (s *Service) CreateCategory(ctx context.Context, name string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, fmt.Errorf("catalog: category name required")
	}
	return s.repo.CreateCategory(ctx, name)
}

// DeleteCategory removes a category.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	return s.repo.DeleteCategory(ctx, id)
}

// ListSubCategories returns subcategories, optionally for one category.
func (s *Service) ListSubCategories(ctx context.Context, categoryID int64) ([]SubCategory, error) {
	return s.repo.ListSubCategories(ctx, categoryID)
}

// GetSubCategory returns one subcategory.
func (s *Service) GetSubCategory(ctx context.Context, id int64) (SubCategory, error) {
	return s.repo.GetSubCategory(ctx, id)
}

// CreateSubCategory inserts a subcategory under an existing category.
func (s *Service) CreateSubCategory(ctx context.Context, name string, categoryID int64) (SubCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return SubCategory{}, fmt.Errorf("catalog: subcategory name required")
	}
	if _, err := s.repo.GetCategory(ctx, categoryID); err != nil {
		return SubCategory{}, err
	}
	return s.repo.CreateSubCategory(ctx, name, categoryID)
}

// DeleteSubCategory removes a subcategory.
func (s *Service) DeleteSubCategory(ctx context.Context, id int64) error {
	return s.repo.DeleteSubCategory(ctx, id)
}

// ListProducts returns one page of products, served from cache when warm.
func (s *Service) ListProducts(ctx context.Context, filter ProductFilter, page, perPage int) (ProductPage, error) {
	p := shared.NewPagination(page, perPage, 0)
	suffix := fmt.Sprintf("products:c%d:s%d:a%t:p%d:n%d",
		filter.CategoryID, filter.SubCategoryID, filter.ActiveOnly, p.Page, p.PerPage)
	return s.cache.FetchProducts(ctx, suffix, func(ctx context.Context) (ProductPage, error) {
		products, total, err := s.repo.ListProducts(ctx, filter, p.PerPage, p.Offset())
		if err != nil {
			return ProductPage{}, err
		}
		return ProductPage{
			Products:   products,
			Pagination: shared.NewPagination(p.Page, p.PerPage, total),
		}, nil
	})
}

// GetProductBySlug returns one product.
func (s *Service) GetProductBySlug(ctx context.Context, slug string) (Product, error) {
	return s.repo.GetProductBySlug(ctx, slug)
}

// CreateProduct inserts a product and invalidates cached listings.
func (s *Service) CreateProduct(ctx context.Context, p Product) (Product, error) {
	if _, err := s.repo.GetCategory(ctx, p.CategoryID); err != nil {
		return Product{}, err
	}
	created, err := s.repo.CreateProduct(ctx, p)
	if err != nil {
		return Product{}, err
	}
	s.cache.Invalidate(ctx)
	return created, nil
}

// UpdateProduct replaces a product and invalidates cached listings.
func (s *Service) UpdateProduct(ctx context.Context, p Product) (Product, error) {
	updated, err := s.repo.UpdateProduct(ctx, p)
	if err != nil {
		return Product{}, err
	}
	s.cache.Invalidate(ctx)
	return updated, nil
}

// DeleteProduct removes a product and invalidates cached listings.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

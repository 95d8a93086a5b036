package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-commerce/meridian/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return shared.ErrDuplicate
		case "23503":
			return fmt.Errorf("%w: referenced record", shared.ErrNotFound)
		}
	}
	return err
}

// ListCategories returns all categories ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategory fetches a category by id.
func (r *Repository) GetCategory(ctx context.Context, id int64) (Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM categories WHERE id = $1`, id).Scan(&c.ID, &c.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, shared.ErrNotFound
	}
	return c, err
}

// CreateCategory inserts a new category.
func (r *Repository) CreateCategory(ctx context.Context, name string) (Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx,
		`INSERT INTO categories (name) VALUES ($1) RETURNING id, name`, name,
	).Scan(&c.ID, &c.Name)
	if err != nil {
		return Category{}, mapWriteError(err)
	}
	return c, nil
}

// DeleteCategory removes a category by id.
func (r *Repository) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListSubCategories returns subcategories, optionally for one category.
func (r *Repository) ListSubCategories(ctx context.Context, categoryID int64) ([]SubCategory, error) {
	query := `SELECT id, name, category_id FROM sub_categories ORDER BY name`
	args := []any{}
	if categoryID > 0 {
		query = `SELECT id, name, category_id FROM sub_categories WHERE category_id = $1 ORDER BY name`
		args = append(args, categoryID)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var subs []SubCategory
	for rows.Next() {
		var sc SubCategory
		if err := rows.Scan(&sc.ID, &sc.Name, &sc.CategoryID); err != nil {
			return nil, err
		}
		subs = append(subs, sc)
	}
	return subs, rows.Err()
}

// GetSubCategory fetches a subcategory by id.
func (r *Repository) GetSubCategory(ctx context.Context, id int64) (SubCategory, error) {
	var sc SubCategory
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, category_id FROM sub_categories WHERE id = $1`, id,
	).Scan(&sc.ID, &sc.Name, &sc.CategoryID)
	if errors.Is(err, pgx.ErrNoRows) {
		return SubCategory{}, shared.ErrNotFound
	}
	return sc, err
}

// CreateSubCategory inserts a new subcategory under a category.
func (r *Repository) CreateSubCategory(ctx context.Context, name string, categoryID int64) (SubCategory, error) {
	var sc SubCategory
	err := r.pool.QueryRow(ctx,
		`INSERT INTO sub_categories (name, category_id) VALUES ($1, $2) RETURNING id, name, category_id`,
		name, categoryID,
	).Scan(&sc.ID, &sc.Name, &sc.CategoryID)
	if err != nil {
		return SubCategory{}, mapWriteError(err)
	}
	return sc, nil
}

// DeleteSubCategory removes a subcategory by id.
func (r *Repository) DeleteSubCategory(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sub_categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

const productColumns = `id, name, description, price, slug, tags, discount, stock, category_id, sub_category_id, is_active`

// ListProducts returns a page of products matching the filter plus the
// total count.
func (r *Repository) ListProducts(ctx context.Context, filter ProductFilter, limit, offset int) ([]Product, int, error) {
	where := `WHERE ($1 = 0 OR category_id = $1)
		AND ($2 = 0 OR sub_category_id = $2)
		AND (NOT $3 OR is_active)`
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM products `+where,
		filter.CategoryID, filter.SubCategoryID, filter.ActiveOnly,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products `+where+` ORDER BY id LIMIT $4 OFFSET $5`,
		filter.CategoryID, filter.SubCategoryID, filter.ActiveOnly, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

// GetProductBySlug fetches a product by its unique slug.
func (r *Repository) GetProductBySlug(ctx context.Context, slug string) (Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE slug = $1`, slug)
	return scanProduct(row)
}

// GetProduct fetches a product by id.
func (r *Repository) GetProduct(ctx context.Context, id int64) (Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

// CreateProduct inserts a new product.
func (r *Repository) CreateProduct(ctx context.Context, p Product) (Product, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO products (name, description, price, slug, tags, discount, stock, category_id, sub_category_id, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+productColumns,
		p.Name, p.Description, p.Price, p.Slug, p.Tags, p.Discount, p.Stock, p.CategoryID, p.SubCategoryID, p.IsActive,
	)
	created, err := scanProduct(row)
	if err != nil {
		return Product{}, mapWriteError(err)
	}
	return created, nil
}

// UpdateProduct replaces a product's mutable fields.
func (r *Repository) UpdateProduct(ctx context.Context, p Product) (Product, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE products SET name = $2, description = $3, price = $4, slug = $5, tags = $6,
			discount = $7, stock = $8, category_id = $9, sub_category_id = $10, is_active = $11
		 WHERE id = $1 RETURNING `+productColumns,
		p.ID, p.Name, p.Description, p.Price, p.Slug, p.Tags, p.Discount, p.Stock, p.CategoryID, p.SubCategoryID, p.IsActive,
	)
	updated, err := scanProduct(row)
	if err != nil {
		return Product{}, mapWriteError(err)
	}
	return updated, nil
}

// DeleteProduct removes a product by id.
func (r *Repository) DeleteProduct(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Slug,
		&p.Tags,
		&p.Discount,
		&p.Stock,
		&p.CategoryID,
		&p.SubCategoryID,
		&p.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, shared.ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

var _ RepositoryPort = (*Repository)(nil)

package addresses

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-commerce/meridian/internal/shared"
)

// Repository provides PostgreSQL backed persistence. Every query carries
// the owning user id in its WHERE clause so ownership is enforced at the
// storage layer.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const addressColumns = `id, user_id, name, address, city, state, country, pincode`

// CreateAddress inserts an address for the user.
func (r *Repository) CreateAddress(ctx context.Context, userID int64, addr NewAddress) (Address, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO addresses (user_id, name, address, city, state, country, pincode)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+addressColumns,
		userID, addr.Name, addr.Address, addr.City, addr.State, addr.Country, addr.Pincode,
	)
	created, err := scanAddress(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Address{}, shared.ErrNotFound
		}
		return Address{}, err
	}
	return created, nil
}

// GetAddress fetches one address owned by the user.
func (r *Repository) GetAddress(ctx context.Context, userID, id int64) (Address, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+addressColumns+` FROM addresses WHERE id = $1 AND user_id = $2`, id, userID)
	return scanAddress(row)
}

// ListAddresses returns a page of the user's addresses and the total count.
func (r *Repository) ListAddresses(ctx context.Context, userID int64, limit, offset int) ([]Address, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM addresses WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+addressColumns+` FROM addresses WHERE user_id = $1 ORDER BY id LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []Address
	for rows.Next() {
		addr, err := scanAddress(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, addr)
	}
	return items, total, rows.Err()
}

// UpdateAddress replaces the fields of one address owned by the user.
func (r *Repository) UpdateAddress(ctx context.Context, userID, id int64, addr NewAddress) (Address, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE addresses
		 SET name = $1, address = $2, city = $3, state = $4, country = $5, pincode = $6
		 WHERE id = $7 AND user_id = $8
		 RETURNING `+addressColumns,
		addr.Name, addr.Address, addr.City, addr.State, addr.Country, addr.Pincode, id, userID,
	)
	return scanAddress(row)
}

// DeleteAddress removes one address owned by the user.
func (r *Repository) DeleteAddress(ctx context.Context, userID, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM addresses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountAddresses returns how many addresses the user currently holds.
func (r *Repository) CountAddresses(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM addresses WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

func scanAddress(row pgx.Row) (Address, error) {
	var addr Address
	err := row.Scan(
		&addr.ID,
		&addr.UserID,
		&addr.Name,
		&addr.Address,
		&addr.City,
		&addr.State,
		&addr.Country,
		&addr.Pincode,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Address{}, shared.ErrNotFound
		}
		return Address{}, err
	}
	return addr, nil
}

var _ RepositoryPort = (*Repository)(nil)

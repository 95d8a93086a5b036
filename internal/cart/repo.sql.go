package cart

import (
	"context"
	"errors"
	"time"

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

const cartColumns = `id, user_id, name, status, reminder_date, created_at, updated_at`

// CreateCart inserts a cart for a user.
func (r *Repository) CreateCart(ctx context.Context, userID int64, name string, reminderDate *time.Time) (Cart, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO carts (user_id, name, status, reminder_date)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+cartColumns,
		userID, name, StatusActive, reminderDate,
	)
	cart, err := scanCart(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return Cart{}, shared.ErrDuplicate
			case "23503":
				return Cart{}, shared.ErrNotFound
			}
		}
		return Cart{}, err
	}
	return cart, nil
}

// GetCart fetches a cart owned by the given user. Ownership is enforced
// in the query so one user can never read another's cart.
func (r *Repository) GetCart(ctx context.Context, userID, cartID int64) (Cart, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+cartColumns+` FROM carts WHERE id = $1 AND user_id = $2`, cartID, userID)
	return scanCart(row)
}

// ListCarts returns all carts belonging to a user.
func (r *Repository) ListCarts(ctx context.Context, userID int64) ([]Cart, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+cartColumns+` FROM carts WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var carts []Cart
	for rows.Next() {
		cart, err := scanCart(rows)
		if err != nil {
			return nil, err
		}
		carts = append(carts, cart)
	}
	return carts, rows.Err()
}

// UpdateCartStatus transitions a cart's status, touching updated_at.
func (r *Repository) UpdateCartStatus(ctx context.Context, userID, cartID int64, status string) (Cart, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE carts SET status = $1, updated_at = now()
		 WHERE id = $2 AND user_id = $3
		 RETURNING `+cartColumns,
		status, cartID, userID,
	)
	return scanCart(row)
}

// DeleteCart removes a cart and its items.
func (r *Repository) DeleteCart(ctx context.Context, userID, cartID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM carts WHERE id = $1 AND user_id = $2`, cartID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListItems returns all lines of a cart.
func (r *Repository) ListItems(ctx context.Context, cartID int64) ([]Item, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, cart_id, product_id, quantity FROM cart_items WHERE cart_id = $1 ORDER BY id`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpsertItem adds a product to a cart or replaces its quantity, touching
// the cart's updated_at so activity resets the abandonment clock.
func (r *Repository) UpsertItem(ctx context.Context, cartID, productID int64, quantity int) (Item, error) {
	var item Item
	err := r.pool.QueryRow(ctx,
		`INSERT INTO cart_items (cart_id, product_id, quantity)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (cart_id, product_id) DO UPDATE SET quantity = EXCLUDED.quantity
		 RETURNING id, cart_id, product_id, quantity`,
		cartID, productID, quantity,
	).Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Item{}, shared.ErrNotFound
		}
		return Item{}, err
	}
	_, err = r.pool.Exec(ctx, `UPDATE carts SET updated_at = now() WHERE id = $1`, cartID)
	if err != nil {
		return Item{}, err
	}
	return item, nil
}

// RemoveItem deletes one product line from a cart.
func (r *Repository) RemoveItem(ctx context.Context, cartID, productID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`, cartID, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	_, err = r.pool.Exec(ctx, `UPDATE carts SET updated_at = now() WHERE id = $1`, cartID)
	return err
}

// RecordCheckout stores an idempotency key for a cart checkout. A repeat
// key reports a duplicate so the checkout is not applied twice.
func (r *Repository) RecordCheckout(ctx context.Context, cartID int64, key string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO cart_checkouts (cart_id, idempotency_key) VALUES ($1, $2)`, cartID, key)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return shared.ErrDuplicate
		}
		return err
	}
	return nil
}

// MarkAbandoned flags active carts idle since before the cutoff. It
// returns the ids it transitioned, for job logging.
func (r *Repository) MarkAbandoned(ctx context.Context, cutoff time.Time) ([]int64, error) {
	rows, err := r.pool.Query(ctx,
		`UPDATE carts SET status = $1, updated_at = now()
		 WHERE status = $2 AND updated_at < $3
		 RETURNING id`,
		StatusAbandoned, StatusActive, cutoff,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanCart(row pgx.Row) (Cart, error) {
	var cart Cart
	err := row.Scan(
		&cart.ID,
		&cart.UserID,
		&cart.Name,
		&cart.Status,
		&cart.ReminderDate,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Cart{}, shared.ErrNotFound
		}
		return Cart{}, err
	}
	return cart, nil
}

var _ RepositoryPort = (*Repository)(nil)

package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-commerce/meridian/internal/shared"
)

// RepositoryPort defines data access methods for carts.
type RepositoryPort interface {
	CreateCart(ctx context.Context, userID int64, name string, reminderDate *time.Time) (Cart, error)
	GetCart(ctx context.Context, userID, cartID int64) (Cart, error)
	ListCarts(ctx context.Context, userID int64) ([]Cart, error)
	UpdateCartStatus(ctx context.Context, userID, cartID int64, status string) (Cart, error)
	DeleteCart(ctx context.Context, userID, cartID int64) error
	ListItems(ctx context.Context, cartID int64) ([]Item, error)
	UpsertItem(ctx context.Context, cartID, productID int64, quantity int) (Item, error)
	RemoveItem(ctx context.Context, cartID, productID int64) error
	RecordCheckout(ctx context.Context, cartID int64, key string) error
	MarkAbandoned(ctx context.Context, cutoff time.Time) ([]int64, error)
}

// ReminderScheduler queues a reminder notification for a cart at a point
// in time.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, cartID, userID int64, at time.Time) error
}

// Service handles cart business logic. All operations act on carts of
// the calling user only.
type Service struct {
	repo      RepositoryPort
	reminders ReminderScheduler
}

// NewService builds a Service instance. reminders may be nil when no
// queue is available, for example in the background worker.
func NewService(repo RepositoryPort, reminders ReminderScheduler) *Service {
	return &Service{repo: repo, reminders: reminders}
}

// CreateCart opens a new active cart. A reminder date queues a delayed
// notification; scheduling is best-effort and never fails the creation.
func (s *Service) CreateCart(ctx context.Context, userID int64, name string, reminderDate *time.Time) (Cart, error) {
	if name == "" {
		name = "default"
	}
	created, err := s.repo.CreateCart(ctx, userID, name, reminderDate)
	if err != nil {
		return Cart{}, err
	}
	if s.reminders != nil && created.ReminderDate != nil {
		_ = s.reminders.ScheduleReminder(ctx, created.ID, created.UserID, *created.ReminderDate)
	}
	return created, nil
}

// GetCart returns a cart with its items.
func (s *Service) GetCart(ctx context.Context, userID, cartID int64) (CartWithItems, error) {
	cart, err := s.repo.GetCart(ctx, userID, cartID)
	if err != nil {
		return CartWithItems{}, err
	}
	items, err := s.repo.ListItems(ctx, cart.ID)
	if err != nil {
		return CartWithItems{}, err
	}
	return CartWithItems{Cart: cart, Items: items}, nil
}

// ListCarts returns every cart of the user.
func (s *Service) ListCarts(ctx context.Context, userID int64) ([]Cart, error) {
	return s.repo.ListCarts(ctx, userID)
}

// SetStatus transitions a cart between active and inactive. Abandoned is
// reserved for the background scan.
func (s *Service) SetStatus(ctx context.Context, userID, cartID int64, status string) (Cart, error) {
	if status != StatusActive && status != StatusInactive {
		return Cart{}, fmt.Errorf("cart: invalid status %q", status)
	}
	return s.repo.UpdateCartStatus(ctx, userID, cartID, status)
}

// DeleteCart removes a cart.
func (s *Service) DeleteCart(ctx context.Context, userID, cartID int64) error {
	return s.repo.DeleteCart(ctx, userID, cartID)
}

// AddItem puts a product into a cart, after checking ownership.
func (s *Service) AddItem(ctx context.Context, userID, cartID, productID int64, quantity int) (Item, error) {
	if quantity <= 0 {
		return Item{}, fmt.Errorf("cart: quantity must be positive")
	}
	if _, err := s.repo.GetCart(ctx, userID, cartID); err != nil {
		return Item{}, err
	}
	return s.repo.UpsertItem(ctx, cartID, productID, quantity)
}

// RemoveItem drops a product line, after checking ownership.
func (s *Service) RemoveItem(ctx context.Context, userID, cartID, productID int64) error {
	if _, err := s.repo.GetCart(ctx, userID, cartID); err != nil {
		return err
	}
	return s.repo.RemoveItem(ctx, cartID, productID)
}

// Checkout closes a cart exactly once per idempotency key. An empty key
// gets a fresh uuid; retries with the same key return the duplicate
// sentinel instead of re-running the checkout.
func (s *Service) Checkout(ctx context.Context, userID, cartID int64, idempotencyKey string) (Cart, string, error) {
	cart, err := s.repo.GetCart(ctx, userID, cartID)
	if err != nil {
		return Cart{}, "", err
	}
	if cart.Status != StatusActive {
		return Cart{}, "", fmt.Errorf("cart: %w", shared.ErrNotFound)
	}
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}
	if err := s.repo.RecordCheckout(ctx, cartID, idempotencyKey); err != nil {
		return Cart{}, "", err
	}
	closed, err := s.repo.UpdateCartStatus(ctx, userID, cartID, StatusInactive)
	if err != nil {
		return Cart{}, "", err
	}
	return closed, idempotencyKey, nil
}

// MarkAbandoned sweeps active carts idle past the cutoff. Used by the
// background job.
func (s *Service) MarkAbandoned(ctx context.Context, idleFor time.Duration) ([]int64, error) {
	return s.repo.MarkAbandoned(ctx, time.Now().Add(-idleFor))
}

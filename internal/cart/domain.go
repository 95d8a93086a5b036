package cart

import "time"

// Cart statuses. An idle cart past the reminder threshold is marked
// abandoned by the background scan.
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusAbandoned = "abandoned"
)

// Cart is a user's shopping cart.
type Cart struct {
	ID           int64
	UserID       int64
	Name         string
	Status       string
	ReminderDate *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Item is one product line inside a cart.
type Item struct {
	ID        int64
	CartID    int64
	ProductID int64
	Quantity  int
}

// CartWithItems bundles a cart with its lines.
type CartWithItems struct {
	Cart  Cart
	Items []Item
}

package addresses

// Address is a delivery address owned by exactly one user. Every operation
// is scoped by the owning user id; there is no cross-user access.
type Address struct {
	ID      int64  `json:"id"`
	UserID  int64  `json:"user_id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	Pincode string `json:"pincode"`
}

// NewAddress carries the fields for creating or replacing an address.
type NewAddress struct {
	Name    string
	Address string
	City    string
	State   string
	Country string
	Pincode string
}

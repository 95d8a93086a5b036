package users

import "time"

// User represents a user account for management.
type User struct {
	ID         int64
	Username   string
	Email      string
	FullName   string
	RoleID     int64
	Phone      string
	Address    string
	CreatedAt  time.Time
	LastActive time.Time
}

// NewUser carries the fields accepted at registration.
type NewUser struct {
	Username string
	Password string
	Email    string
	FullName string
	Phone    string
	Address  string
}

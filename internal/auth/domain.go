package auth

import "time"

// Identity is the verified result of authenticating a request. It is
// immutable and lives only for the duration of one request.
type Identity struct {
	UserID int64
	Email  string
}

// User represents a stored account. Each user points at exactly one role.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	RoleID       int64
	Phone        string
	Address      string
	CreatedAt    time.Time
	LastActive   time.Time
}

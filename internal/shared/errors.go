package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated indicates no verifiable identity on the request.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrForbidden indicates the caller lacks a required permission.
	ErrForbidden = errors.New("missing permissions")
)

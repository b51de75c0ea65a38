package services

import (
	"errors"
)

var (
	// ErrUnauthenticated means no acting user could be resolved.
	ErrUnauthenticated = errors.New("no authenticated user")

	// ErrForbidden means the acting user is not allowed to perform at
	// least one of the requested mutations.
	ErrForbidden = errors.New("operation not permitted")
)

package common

import "errors"

var (
	// ErrNotFound is returned by lookups of local data that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput reports user input that cannot be turned into a request.
	ErrInvalidInput = errors.New("invalid input")
)

package api

import "errors"

var (
	// ErrUnavailable means the server could not be reached at all.
	ErrUnavailable = errors.New("server unavailable")
	// ErrUnauthorized means the credentials or tokens were rejected.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound means the addressed resource does not exist or is not ours.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists means a uniqueness constraint was hit (duplicate email).
	ErrAlreadyExists = errors.New("already exists")
	// ErrValidation means the server rejected the request payload.
	ErrValidation = errors.New("validation failed")
)

package storage

import "errors"

var (
	// ErrNotFound indicates the requested sheet does not exist at the source
	ErrNotFound = errors.New("sheet not found")

	// ErrUnavailable indicates the backend could not be reached after retries
	ErrUnavailable = errors.New("storage unavailable")
)

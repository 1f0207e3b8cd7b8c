package repository

import "errors"

var (
	// ErrInvalidSheetURL indicates an invalid sheet URL
	ErrInvalidSheetURL = errors.New("invalid sheet URL")

	// ErrSheetNotFound indicates the sheet was not found
	ErrSheetNotFound = errors.New("sheet not found")

	// ErrRepositoryUnavailable indicates the backing store is unavailable
	ErrRepositoryUnavailable = errors.New("repository unavailable")
)

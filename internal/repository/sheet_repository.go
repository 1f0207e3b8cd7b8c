package repository

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/url"
	"strings"

	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/storage"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/pkg/validation"
)

const blobHostSuffix = ".blob.core.windows.net"

// SheetRepository defines data access for sprite sheets
type SheetRepository interface {
	// FetchSheet retrieves and decodes the sheet at sheetURL
	FetchSheet(ctx context.Context, sheetURL string) (image.Image, error)

	// ValidateSheetURL reports whether sheetURL is acceptable
	ValidateSheetURL(sheetURL string) error
}

type sheetRepository struct {
	web       storage.SheetFetcher
	blob      storage.SheetFetcher
	validator *validation.URLValidator
}

// NewSheetRepository routes Azure blob URLs to blob and everything else to
// web. blob may be nil, in which case blob URLs are fetched over HTTPS.
func NewSheetRepository(web, blob storage.SheetFetcher, validator *validation.URLValidator) SheetRepository {
	if validator == nil {
		validator = validation.NewURLValidator()
	}
	return &sheetRepository{
		web:       web,
		blob:      blob,
		validator: validator,
	}
}

func (r *sheetRepository) FetchSheet(ctx context.Context, sheetURL string) (image.Image, error) {
	if err := r.ValidateSheetURL(sheetURL); err != nil {
		return nil, err
	}

	fetcher := r.web
	if r.blob != nil && isBlobURL(sheetURL) {
		fetcher = r.blob
	}

	img, err := fetcher.Fetch(ctx, sheetURL)
	switch {
	case err == nil:
		return img, nil
	case errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("%w: %w", ErrSheetNotFound, err)
	case errors.Is(err, storage.ErrUnavailable):
		return nil, fmt.Errorf("%w: %w", ErrRepositoryUnavailable, err)
	}
	return nil, err
}

func (r *sheetRepository) ValidateSheetURL(sheetURL string) error {
	if err := r.validator.ValidateImageURL(sheetURL); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSheetURL, err)
	}
	return nil
}

func isBlobURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(u.Hostname()), blobHostSuffix)
}

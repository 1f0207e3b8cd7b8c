package storage

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"time"

	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/codec"
)

// SheetFetcher downloads and decodes a sprite sheet
type SheetFetcher interface {
	Fetch(ctx context.Context, sheetURL string) (image.Image, error)
}

const fetchAttempts = 3

// HTTPFetcher fetches sheets over HTTP(S), retrying transient failures
type HTTPFetcher struct {
	client  *http.Client
	backoff time.Duration
}

// NewHTTPFetcher creates an HTTP sheet fetcher bounded by timeout per request
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 4096,
	}

	return &HTTPFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
		backoff: time.Second,
	}
}

// Fetch downloads sheetURL and decodes it. Network errors and 5xx responses
// are retried with a linear backoff; 4xx responses fail immediately.
func (h *HTTPFetcher) Fetch(ctx context.Context, sheetURL string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sheetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("Accept", "image/png, image/gif, image/bmp, image/webp, image/jpeg, */*")
	req.Header.Set("User-Agent", "Sprite-Sheet-Splitter/1.0")

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt < fetchAttempts; attempt++ {
		resp, err = h.client.Do(req)
		if err != nil {
			lastErr = err
		} else if resp.StatusCode == http.StatusOK {
			break
		} else {
			resp.Body.Close()
			status := resp.StatusCode
			resp = nil

			switch {
			case status == http.StatusNotFound:
				return nil, fmt.Errorf("%w: %s", ErrNotFound, sheetURL)
			case status >= 400 && status < 500:
				return nil, fmt.Errorf("client error: status code %d", status)
			default:
				lastErr = fmt.Errorf("server error: status code %d", status)
			}
		}

		if attempt < fetchAttempts-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt+1) * h.backoff):
			}
		}
	}

	if resp == nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: failed to fetch sheet after %d attempts: %v", ErrUnavailable, fetchAttempts, lastErr)
	}
	defer resp.Body.Close()

	img, _, err := codec.Decode(resp.Body)
	if err != nil {
		return nil, err
	}
	return img, nil
}

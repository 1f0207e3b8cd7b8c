package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/codec"
	apperrors "github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/errors"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/mask"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/pixel"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/repository"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/pkg/models"
)

// run executes fn on its own goroutine and waits for its single result, the
// deadline, or cancellation of ctx, whichever comes first. A panic in fn is
// returned as an internal error.
func run[T any](ctx context.Context, timeout time.Duration, fn func() (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: apperrors.NewInternalError(fmt.Sprintf("sprite operation panicked: %v", r), nil)}
			}
		}()
		v, err := fn()
		done <- result{value: v, err: err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		return zero, apperrors.NewTimeoutError("sprite operation did not finish in time", ctx.Err())
	}
}

func toGrid(img image.Image) (*pixel.Grid, error) {
	g, err := pixel.FromImage(img)
	if err != nil {
		return nil, apperrors.NewValidationError("sheet has no pixels", err)
	}
	return g, nil
}

// fetchError classifies repository failures
func fetchError(err error) error {
	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, repository.ErrInvalidSheetURL):
		if errors.As(err, &appErr) {
			return appErr
		}
		return apperrors.NewValidationError("invalid sheet URL", err)
	case errors.Is(err, repository.ErrSheetNotFound):
		return apperrors.NewNotFoundError("sheet not found", err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewTimeoutError("sheet fetch timeout", err)
	case errors.Is(err, codec.ErrDecode):
		return apperrors.NewDecodeError("sheet is not a supported image", err)
	}
	return apperrors.NewNetworkError("failed to fetch sheet", err)
}

// backgroundOf describes the background value the way clients expect:
// #rrggbb, with an alpha byte appended when the colour is not opaque.
func backgroundOf(g *pixel.Grid, v pixel.Value) models.Background {
	bg := models.Background{Channels: make([]int, len(v))}
	for i, c := range v {
		bg.Channels[i] = int(c)
	}
	if v == nil {
		return bg
	}

	col := g.Color(v)
	_, _, _, a := col.RGBA()
	if c, ok := colorful.MakeColor(col); ok {
		bg.Hex = c.Hex()
	} else {
		bg.Hex = "#000000"
	}
	if a != 0xffff {
		bg.Hex += fmt.Sprintf("%02x", a>>8)
	}
	return bg
}

func detectResponse(src Source, g *pixel.Grid, res mask.Result, start time.Time) *models.DetectResponse {
	regions := res.Regions
	if regions == nil {
		regions = []mask.BoundingBox{}
	}
	return &models.DetectResponse{
		Source:            src.label(),
		Width:             g.Width,
		Height:            g.Height,
		Background:        backgroundOf(g, res.Background),
		ForegroundPixels:  res.Foreground,
		Regions:           regions,
		Timestamp:         start.UTC().Format(time.RFC3339),
		ProcessingTimeSec: time.Since(start).Seconds(),
	}
}

func cellInfos(cells []*pixel.Grid) []models.CellInfo {
	infos := make([]models.CellInfo, len(cells))
	for i, c := range cells {
		infos[i] = models.CellInfo{
			Index:  i,
			Width:  c.Width,
			Height: c.Height,
			Empty:  c.Empty(),
		}
	}
	return infos
}

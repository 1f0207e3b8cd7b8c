package service

import (
	"context"
	"image"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/codec"
	apperrors "github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/errors"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/factory"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/mask"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/observer"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/pixel"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/preview"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/repository"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/splitter"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/storage"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/worker"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/pkg/models"
)

const defaultBase = "sprite"

// Source is a sheet given either by URL or already decoded
type Source struct {
	URL   string
	Image image.Image
	Name  string
}

func (s Source) label() string {
	if s.URL != "" {
		return s.URL
	}
	if s.Name != "" {
		return s.Name
	}
	return "upload"
}

// SaveOptions controls whether and how produced cells are persisted. Empty
// Base and Ext fall back to "sprite" and the configured output format.
type SaveOptions struct {
	Save bool
	Base string
	Ext  string
}

// Options are the service limits taken from configuration
type Options struct {
	FetchTimeout     time.Duration
	AnalysisTimeout  time.Duration
	OutputFormat     string
	PreviewMaxWidth  int
	PreviewMaxHeight int
}

// SpriteService defines the sprite sheet operations
type SpriteService interface {
	// Detect finds sprite regions against the background colour
	Detect(ctx context.Context, src Source) (*models.DetectResponse, error)

	// Extract detects regions and crops each one
	Extract(ctx context.Context, src Source, opts SaveOptions) (*models.ExtractResponse, error)

	// Split cuts the sheet as a grid
	Split(ctx context.Context, src Source, cfg splitter.Config, opts SaveOptions) (*models.SplitResponse, error)

	// Preview scales the sheet into the given box and returns PNG bytes
	Preview(ctx context.Context, src Source, maxWidth, maxHeight int) ([]byte, error)

	// ValidateSheetURL validates a sheet URL without fetching it
	ValidateSheetURL(sheetURL string) error
}

type spriteService struct {
	repo     repository.SheetRepository
	output   factory.Output
	pool     *worker.Pool
	events   observer.Subject
	analyzer *mask.Analyzer
	opts     Options
}

// NewSpriteService creates a sprite service. events may be nil; an output
// without a saver disables saving.
func NewSpriteService(
	repo repository.SheetRepository,
	output factory.Output,
	pool *worker.Pool,
	events observer.Subject,
	opts Options,
) SpriteService {
	if opts.OutputFormat == "" {
		opts.OutputFormat = string(codec.PNG)
	}
	return &spriteService{
		repo:     repo,
		output:   output,
		pool:     pool,
		events:   events,
		analyzer: mask.NewAnalyzer(),
		opts:     opts,
	}
}

func (s *spriteService) ValidateSheetURL(sheetURL string) error {
	return s.repo.ValidateSheetURL(sheetURL)
}

func (s *spriteService) Detect(ctx context.Context, src Source) (*models.DetectResponse, error) {
	var resp *models.DetectResponse
	err := s.track(ctx, observer.OpDetect, src, func() error {
		start := time.Now()
		img, err := s.fetch(ctx, src)
		if err != nil {
			return err
		}

		type detection struct {
			grid   *pixel.Grid
			result mask.Result
		}
		d, err := run(ctx, s.opts.AnalysisTimeout, func() (detection, error) {
			g, err := toGrid(img)
			if err != nil {
				return detection{}, err
			}
			return detection{grid: g, result: s.analyzer.Analyze(g)}, nil
		})
		if err != nil {
			return err
		}

		resp = detectResponse(src, d.grid, d.result, start)
		return nil
	})
	return resp, err
}

func (s *spriteService) Extract(ctx context.Context, src Source, opts SaveOptions) (*models.ExtractResponse, error) {
	var resp *models.ExtractResponse
	err := s.track(ctx, observer.OpExtract, src, func() error {
		start := time.Now()
		format, err := s.format(opts)
		if err != nil {
			return err
		}
		img, err := s.fetch(ctx, src)
		if err != nil {
			return err
		}

		type extraction struct {
			grid   *pixel.Grid
			result mask.Result
			cells  []*pixel.Grid
		}
		x, err := run(ctx, s.opts.AnalysisTimeout, func() (extraction, error) {
			g, err := toGrid(img)
			if err != nil {
				return extraction{}, err
			}
			res := s.analyzer.Analyze(g)
			return extraction{grid: g, result: res, cells: s.analyzer.Extract(g, res.Regions)}, nil
		})
		if err != nil {
			return err
		}

		resp = &models.ExtractResponse{
			DetectResponse: *detectResponse(src, x.grid, x.result, start),
			Cells:          cellInfos(x.cells),
		}
		if opts.Save {
			resp.JobID, resp.Saved, err = s.save(ctx, src, x.cells, opts.Base, format)
			if err != nil {
				return err
			}
		}
		resp.ProcessingTimeSec = time.Since(start).Seconds()
		return nil
	})
	return resp, err
}

func (s *spriteService) Split(ctx context.Context, src Source, cfg splitter.Config, opts SaveOptions) (*models.SplitResponse, error) {
	var resp *models.SplitResponse
	err := s.track(ctx, observer.OpSplit, src, func() error {
		start := time.Now()
		sp, err := splitter.New(cfg)
		if err != nil {
			return err
		}
		format, err := s.format(opts)
		if err != nil {
			return err
		}
		img, err := s.fetch(ctx, src)
		if err != nil {
			return err
		}

		cells, err := run(ctx, s.opts.AnalysisTimeout, func() ([]*pixel.Grid, error) {
			g, err := toGrid(img)
			if err != nil {
				return nil, err
			}
			return sp.Split(g)
		})
		if err != nil {
			return err
		}

		resp = &models.SplitResponse{
			Source:    src.label(),
			Strategy:  sp.Strategy().Kind.String(),
			Rows:      cfg.Rows,
			Columns:   cfg.Columns,
			Margins:   cfg.Margins,
			Cells:     cellInfos(cells),
			Timestamp: start.UTC().Format(time.RFC3339),
		}
		if opts.Save {
			resp.JobID, resp.Saved, err = s.save(ctx, src, cells, opts.Base, format)
			if err != nil {
				return err
			}
		}
		resp.ProcessingTimeSec = time.Since(start).Seconds()
		return nil
	})
	return resp, err
}

func (s *spriteService) Preview(ctx context.Context, src Source, maxWidth, maxHeight int) ([]byte, error) {
	if maxWidth <= 0 || maxWidth > s.opts.PreviewMaxWidth {
		maxWidth = s.opts.PreviewMaxWidth
	}
	if maxHeight <= 0 || maxHeight > s.opts.PreviewMaxHeight {
		maxHeight = s.opts.PreviewMaxHeight
	}

	var data []byte
	err := s.track(ctx, observer.OpPreview, src, func() error {
		img, err := s.fetch(ctx, src)
		if err != nil {
			return err
		}
		if img.Bounds().Empty() {
			return apperrors.NewValidationError("sheet has no pixels", pixel.ErrEmptyImage)
		}
		data, err = run(ctx, s.opts.AnalysisTimeout, func() ([]byte, error) {
			out, err := codec.EncodeBytes(preview.Fit(img, maxWidth, maxHeight), codec.PNG)
			if err != nil {
				return nil, apperrors.NewInternalError("failed to encode preview", err)
			}
			return out, nil
		})
		return err
	})
	return data, err
}

// fetch returns the uploaded image or downloads the sheet
func (s *spriteService) fetch(ctx context.Context, src Source) (image.Image, error) {
	if src.Image != nil {
		return src.Image, nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
	defer cancel()

	start := time.Now()
	img, err := s.repo.FetchSheet(fetchCtx, src.URL)
	if err != nil {
		s.notify(ctx, observer.Event{
			Type:         observer.SheetFetchFailed,
			Source:       src.label(),
			Duration:     time.Since(start),
			ErrorMessage: err.Error(),
		})
		return nil, fetchError(err)
	}

	s.notify(ctx, observer.Event{
		Type:     observer.SheetFetched,
		Source:   src.label(),
		Duration: time.Since(start),
		Success:  true,
		Metadata: map[string]interface{}{
			"width":  img.Bounds().Dx(),
			"height": img.Bounds().Dy(),
		},
	})
	return img, nil
}

func (s *spriteService) format(opts SaveOptions) (codec.Format, error) {
	if !opts.Save {
		return "", nil
	}
	ext := opts.Ext
	if strings.TrimSpace(ext) == "" {
		ext = s.opts.OutputFormat
	}
	f, err := codec.ParseFormat(ext)
	if err != nil {
		return "", apperrors.NewValidationError("unsupported output format", err)
	}
	return f, nil
}

func (s *spriteService) save(ctx context.Context, src Source, cells []*pixel.Grid, base string, format codec.Format) (string, []storage.Saved, error) {
	if s.output.Saver == nil {
		return "", nil, apperrors.NewStorageError("saving is not configured", nil)
	}
	if strings.TrimSpace(base) == "" {
		base = defaultBase
	}

	jobID := uuid.NewString()
	batch := s.output.Batch(jobID, base, format.Extension())
	batch.Append(cells...)

	start := time.Now()
	saved, err := batch.Save(ctx, s.output.Saver, s.pool)
	if err != nil {
		return jobID, saved, apperrors.NewStorageError("failed to save cells", err)
	}

	s.notify(ctx, observer.Event{
		Type:     observer.CellsSaved,
		Source:   src.label(),
		Duration: time.Since(start),
		Success:  true,
		Metadata: map[string]interface{}{
			"count":   len(saved),
			"job_id":  jobID,
			"backend": string(s.output.Backend),
		},
	})
	return jobID, saved, nil
}

// track wraps an operation with started, completed and failed events
func (s *spriteService) track(ctx context.Context, op observer.Operation, src Source, fn func() error) error {
	start := time.Now()
	s.notify(ctx, observer.Event{Type: observer.OperationStarted, Operation: op, Source: src.label()})

	err := fn()
	event := observer.Event{
		Type:      observer.OperationCompleted,
		Operation: op,
		Source:    src.label(),
		Duration:  time.Since(start),
		Success:   err == nil,
	}
	if err != nil {
		event.Type = observer.OperationFailed
		event.ErrorMessage = err.Error()
	}
	s.notify(ctx, event)
	return err
}

func (s *spriteService) notify(ctx context.Context, event observer.Event) {
	if s.events == nil {
		return
	}
	s.events.Notify(context.WithoutCancel(ctx), event)
}

package container

import (
	"fmt"
	"net/http"

	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/config"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/factory"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/logger"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/observer"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/repository"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/service"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/storage"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/transport"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/worker"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config        *config.Config
	pool          *worker.Pool
	metrics       *observer.MetricsObserver
	repository    repository.SheetRepository
	spriteService service.SpriteService
	handler       http.Handler
}

// NewContainer wires the application from cfg
func NewContainer(cfg *config.Config) (*Container, error) {
	storageFactory := factory.NewStorageFactory(cfg)

	output, err := storageFactory.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to create output storage: %w", err)
	}

	var blobFetcher storage.SheetFetcher
	blob, err := storageFactory.BlobStore()
	if err != nil {
		return nil, fmt.Errorf("failed to create blob store: %w", err)
	}
	if blob != nil {
		blobFetcher = blob
	}

	repo := repository.NewSheetRepository(storageFactory.SheetFetcher(), blobFetcher, sheetURLValidator(cfg))

	pool := worker.NewPool(cfg.MaxWorkers)
	pool.Start()

	metrics := observer.NewMetricsObserver()
	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	events.Subscribe(metrics)

	spriteService := service.NewSpriteService(repo, output, pool, events, service.Options{
		FetchTimeout:     cfg.ImageFetchTimeout,
		AnalysisTimeout:  cfg.AnalysisTimeout,
		OutputFormat:     cfg.OutputFormat,
		PreviewMaxWidth:  cfg.PreviewMaxWidth,
		PreviewMaxHeight: cfg.PreviewMaxHeight,
	})

	return &Container{
		config:        cfg,
		pool:          pool,
		metrics:       metrics,
		repository:    repo,
		spriteService: spriteService,
		handler:       transport.NewHandler(spriteService, cfg, metrics),
	}, nil
}

// sheetURLValidator restricts hosts when ALLOWED_SHEET_HOSTS is set
func sheetURLValidator(cfg *config.Config) *validation.URLValidator {
	if len(cfg.AllowedSheetHosts) == 0 {
		return validation.NewURLValidator()
	}
	return validation.NewURLValidatorWithOptions([]string{"http", "https"}, cfg.AllowedSheetHosts)
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Service returns the sprite service
func (c *Container) Service() service.SpriteService {
	return c.spriteService
}

// Close stops the worker pool
func (c *Container) Close() {
	c.pool.Close()
}

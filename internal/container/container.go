package container

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/anime-shed/image-quality-go/internal/analyzer"
	"github.com/anime-shed/image-quality-go/internal/config"
	"github.com/anime-shed/image-quality-go/internal/decoder"
	"github.com/anime-shed/image-quality-go/internal/logger"
	"github.com/anime-shed/image-quality-go/internal/observer"
	"github.com/anime-shed/image-quality-go/internal/service"
	"github.com/anime-shed/image-quality-go/internal/storage"
	"github.com/anime-shed/image-quality-go/internal/transport"
	"github.com/anime-shed/image-quality-go/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config            *config.Config
	assessor          analyzer.ImageAssessor
	fetcher           storage.SourceFetcher
	metrics           *observer.MetricsObserver
	assessmentService service.AssessmentService

	handlerOnce sync.Once
	handler     http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	// Build dependency graph
	dec := decoder.NewDecoder(decoder.NewDcrawDeveloper(cfg.RawDeveloper))
	assessor, err := analyzer.NewImageAssessor(dec, cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create assessor: %w", err)
	}

	fetcher, err := newFetcher(cfg)
	if err != nil {
		assessor.Close()
		return nil, err
	}

	metrics := observer.NewMetricsObserver()
	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	events.Subscribe(metrics)

	validator := validation.NewSourceValidatorWithOptions([]string{"http", "https"}, cfg.AllowedSourceHosts)
	assessmentService := service.NewAssessmentService(assessor, fetcher, validator, events)

	return &Container{
		config:            cfg,
		assessor:          assessor,
		fetcher:           fetcher,
		metrics:           metrics,
		assessmentService: assessmentService,
	}, nil
}

// newFetcher routes blob URLs to Azure when credentials are configured and
// everything else over plain HTTP.
func newFetcher(cfg *config.Config) (storage.SourceFetcher, error) {
	httpFetcher := storage.NewHTTPFetcher(storage.HTTPFetcherOptions{
		Timeout:  cfg.FetchTimeout,
		MaxBytes: cfg.MaxUploadSize,
		TempDir:  cfg.UploadDir,
	})

	if !cfg.AzureEnabled() {
		return storage.NewRouter(httpFetcher, nil), nil
	}

	azureFetcher, err := storage.NewAzureBlobFetcher(cfg.AzureStorageAccount, cfg.AzureStorageKey, cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create azure fetcher: %w", err)
	}
	logger.WithField("account", cfg.AzureStorageAccount).Info("Azure blob sources enabled")
	return storage.NewRouter(httpFetcher, azureFetcher), nil
}

// Handler returns the HTTP handler, building it on first use so the CLI
// never registers routes.
func (c *Container) Handler() http.Handler {
	c.handlerOnce.Do(func() {
		c.handler = transport.NewHandler(c.assessmentService, c.metrics, c.config)
	})
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Service returns the assessment service
func (c *Container) Service() service.AssessmentService {
	return c.assessmentService
}

// Assessor returns the shared assessor
func (c *Container) Assessor() analyzer.ImageAssessor {
	return c.assessor
}

// Stats returns the assessment counters
func (c *Container) Stats() *observer.MetricsObserver {
	return c.metrics
}

// Close releases the assessor's worker pool
func (c *Container) Close() error {
	return c.assessor.Close()
}

package container

import (
	"go-qc-inspector/internal/config"
	"go-qc-inspector/internal/factory"
	"go-qc-inspector/internal/imaging"
	"go-qc-inspector/internal/logger"
	"go-qc-inspector/internal/observer"
	"go-qc-inspector/internal/plot"
	"go-qc-inspector/internal/repository"
	"go-qc-inspector/internal/service"
	"go-qc-inspector/internal/visualise"
	"go-qc-inspector/pkg/validation"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Container holds all application dependencies
type Container struct {
	config              *config.Config
	runID               string
	log                 *logrus.Entry
	metrics             *observer.MetricsObserver
	decoder             *imaging.Decoder
	extremesService     service.ExtremesService
	distributionService service.DistributionService
}

// NewContainer creates a new dependency injection container for one run
func NewContainer(cfg *config.Config) (*Container, error) {
	runID := uuid.New().String()
	log := logger.WithField("run_id", runID)

	events := observer.NewEventPublisher()
	metrics := observer.NewMetricsObserver()
	events.Subscribe(observer.NewLoggingObserver(log))
	events.Subscribe(metrics)

	opts := factory.StorageOptions{
		FetchTimeout:     cfg.ImageFetchTimeout,
		AzureAccountName: cfg.AzureAccountName,
		AzureAccountKey:  cfg.AzureAccountKey,
	}
	router, err := factory.NewRouter(factory.NewStorageFactory(opts), opts)
	if err != nil {
		return nil, err
	}

	decoder := imaging.NewDecoder(router, cfg.Workers, cfg.CacheDecodedImages)
	repo := repository.NewFileQCRepository(cfg.FilePathColumn)
	store := repository.NewDirArtifactStore(cfg.OutputDir)

	validator := validation.NewVerdictValidatorWithThresholds(validation.Thresholds{
		SharpnessColumn: cfg.Thresholds.SharpnessColumn,
		SharpnessMax:    cfg.Thresholds.SharpnessMax,
		SpecularColumn:  cfg.Thresholds.SpecularColumn,
		SpecularMax:     cfg.Thresholds.SpecularMax,
	})
	grid := visualise.NewGrid(cfg.ThumbnailWidth, cfg.ThumbnailHeight, cfg.LabelPrecision)
	plotter := plot.NewBoxPlotter(cfg.PlotTitle, cfg.PlotWidthInches, cfg.PlotHeightInches, cfg.GroupNames)

	return &Container{
		config:              cfg,
		runID:               runID,
		log:                 log,
		metrics:             metrics,
		decoder:             decoder,
		extremesService:     service.NewExtremesService(cfg, repo, store, decoder, validator, grid, events, log),
		distributionService: service.NewDistributionService(cfg, repo, store, plotter, events, log),
	}, nil
}

// ExtremesService returns the extremes visualisation service
func (c *Container) ExtremesService() service.ExtremesService {
	return c.extremesService
}

// DistributionService returns the box plot service
func (c *Container) DistributionService() service.DistributionService {
	return c.distributionService
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// RunID identifies this run in every log line
func (c *Container) RunID() string {
	return c.runID
}

// Logger returns the run-scoped log entry
func (c *Container) Logger() *logrus.Entry {
	return c.log
}

// Metrics returns the counters collected so far
func (c *Container) Metrics() observer.RunMetrics {
	return c.metrics.GetMetrics()
}

// Close stops the decode workers
func (c *Container) Close() {
	c.decoder.Close()
}

package container

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/AphiweJoko/AgriAssist/internal/advisor"
	"github.com/AphiweJoko/AgriAssist/internal/analyzer"
	"github.com/AphiweJoko/AgriAssist/internal/completion"
	"github.com/AphiweJoko/AgriAssist/internal/config"
	"github.com/AphiweJoko/AgriAssist/internal/factory"
	"github.com/AphiweJoko/AgriAssist/internal/logger"
	"github.com/AphiweJoko/AgriAssist/internal/metrics"
	"github.com/AphiweJoko/AgriAssist/internal/observer"
	"github.com/AphiweJoko/AgriAssist/internal/repository"
	"github.com/AphiweJoko/AgriAssist/internal/service"
	"github.com/AphiweJoko/AgriAssist/internal/storage"
	"github.com/AphiweJoko/AgriAssist/internal/transport"
	"github.com/AphiweJoko/AgriAssist/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config           *config.Config
	stagingStore     storage.StagingStore
	completionClient completion.Client
	analyzer         analyzer.DiagnosticAnalyzer
	publisher        observer.Subject
	analysisService  service.AnalysisService
	handler          http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	components := factory.NewComponentFactory(cfg)

	stagingStore, err := components.StorageFactory.CreateStorage(ctx, factory.StorageType(cfg.StagingBackend))
	if err != nil {
		return nil, fmt.Errorf("failed to create staging store: %w", err)
	}

	completionClient, err := components.CompletionFactory.CreateCompletionClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create completion client: %w", err)
	}

	generator, err := advisor.NewGenerator(completionClient, cfg.CompletionModel, cfg.CompletionTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	diagnosticAnalyzer, err := analyzer.NewDiagnosticAnalyzer(cfg.AnalyzerWorkers)
	if err != nil {
		return nil, fmt.Errorf("failed to create analyzer: %w", err)
	}

	publisher := observer.NewEventPublisher()
	publisher.Subscribe(observer.NewLoggingObserver(logger.Logger))
	if cfg.MetricsEnabled {
		metrics.Register()
		publisher.Subscribe(observer.NewMetricsObserver())
		registerPoolGauges(diagnosticAnalyzer)
	}

	analysisService := service.NewAnalysisService(
		repository.NewStagedImageRepository(stagingStore),
		diagnosticAnalyzer,
		generator,
		generator,
		publisher,
	)
	handler := transport.NewHandler(analysisService, validation.NewUploadValidator(), cfg)

	logger.WithFields(logrus.Fields{
		"staging_backend":  stagingStore.Backend(),
		"completion_mode":  cfg.CompletionMode,
		"completion_model": cfg.CompletionModel,
		"analyzer_workers": diagnosticAnalyzer.PoolStats().Workers,
		"metrics_enabled":  cfg.MetricsEnabled,
	}).Info("Container initialized")

	return &Container{
		config:           cfg,
		stagingStore:     stagingStore,
		completionClient: completionClient,
		analyzer:         diagnosticAnalyzer,
		publisher:        publisher,
		analysisService:  analysisService,
		handler:          handler,
	}, nil
}

func registerPoolGauges(a analyzer.DiagnosticAnalyzer) {
	err := metrics.RegisterPoolGauges(prometheus.DefaultRegisterer,
		func() float64 { return float64(a.PoolStats().ActiveWorkers) },
		func() float64 { return float64(a.PoolStats().CompletedJobs) },
	)
	if err != nil {
		logger.WithError(err).Warn("Worker pool gauges not registered")
	}
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// AnalysisService returns the analysis orchestrator
func (c *Container) AnalysisService() service.AnalysisService {
	return c.analysisService
}

// Close releases the analyzer worker pool
func (c *Container) Close() error {
	return c.analyzer.Close()
}

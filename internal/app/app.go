package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"

	"solareda/internal/config"
	"solareda/internal/errors"
	"solareda/internal/infrastructure"
	customMiddleware "solareda/internal/middleware"
	"solareda/internal/services"
	handlers "solareda/internal/transport/http"
	"solareda/internal/validation"
	"solareda/internal/websocket"
	"solareda/pkg/contracts"
)

const AppName = "Solar EDA Dashboard"

// Application represents the main application container
type Application struct {
	Config         *config.Config
	Paths          *config.Paths
	Router         *chi.Mux
	Server         *http.Server
	Logger         *slog.Logger
	OTelProviders  *infrastructure.OTelProviders
	Metrics        *infrastructure.PipelineMetrics
	DatasetService *services.DatasetService
	HealthService  *services.HealthService
	Hub            *websocket.Hub
	ErrorHandler   *errors.ErrorHandler
}

// NewApplication loads the configuration, initializes the global logger and
// builds the dashboard application.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	paths, err := cfg.GetPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}
	if cfg.Logging.FilePath != "" && !filepath.IsAbs(cfg.Logging.FilePath) {
		cfg.Logging.FilePath = paths.Resolve(cfg.Logging.FilePath)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, paths, logger)
}

// New builds the application from an explicit configuration. Directories
// are created and telemetry is initialized, but the server is not started.
func New(cfg *config.Config, paths *config.Paths, logger *slog.Logger) (*Application, error) {
	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version))

	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	logger.Info("Application paths",
		slog.String("base_dir", paths.BaseDir),
		slog.String("data_dir", paths.DataDir),
		slog.String("reports_dir", paths.ReportsDir),
		slog.String("logs_dir", paths.LogsDir),
		slog.String("sample_dataset", paths.SampleDataset))

	otelProviders, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreatePipelineMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		ErrorHandler:  errors.NewErrorHandler(logger, false),
	}

	a.initializeServices()
	a.setupRouter()
	a.createServer()

	return a, nil
}

// initializeServices initializes all application services. The event hub
// starts here so cache events reach clients as soon as routes are served.
func (a *Application) initializeServices() {
	a.Hub = websocket.NewHub(a.Logger)
	a.Hub.Start()

	a.DatasetService = services.NewDatasetService(a.Config, a.Paths, a.Metrics,
		infrastructure.WithComponent(a.Logger, "dataset_service"))
	a.DatasetService.SetPublisher(a.Hub)
	a.HealthService = services.NewHealthService(contracts.GetVersionInfo(), a.Paths,
		a.DatasetService.Cache(), infrastructure.WithComponent(a.Logger, "health_service"))
}

// setupRouter builds the middleware chain and mounts every route.
// Order: RequestID, RealIP, OTel, Logger, Recoverer, security, rate limit.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.ErrorHandler))
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfigFrom(a.Config.Security, a.Logger)))
	}
	if limiter := customMiddleware.NewRateLimiterFrom(a.Config.Security.RateLimit, a.Logger); limiter != nil {
		r.Use(limiter.Handler)
	}

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	a.setupAPIRoutes(r)

	r.Handle("/metrics", handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, a.ErrorHandler))
	r.Get("/ws", websocket.NewHandler(a.Hub, a.Config.Security.AllowedOrigins, a.Logger))

	r.With(customMiddleware.Compress(5)).Get("/", handlers.ServeDashboard(handlers.DashboardPage{
		Version:        contracts.Version,
		SampleDataset:  a.sampleName(),
		MaxUploadMB:    a.Config.Upload.MaxBytes >> 20,
		DefaultColumns: a.Config.Analysis.CleanColumns,
	}, a.Logger))

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.Version)

		datasetHandler := handlers.NewDatasetHandler(a.DatasetService, a.Config.Upload.MaxBytes,
			infrastructure.WithComponent(a.Logger, "dataset_handler"), a.ErrorHandler)
		r.Mount("/datasets", datasetHandler.Routes())
		r.Mount("/files", datasetHandler.FileRoutes())

		r.Post("/logs", handlers.NewClientLogHandler(a.Logger, a.ErrorHandler).Handle)
	})
}

// sampleName is the sample dataset's file name when it exists on disk.
func (a *Application) sampleName() string {
	if a.Paths.SampleDataset == "" || !config.FileExists(a.Paths.SampleDataset) {
		return ""
	}
	return filepath.Base(a.Paths.SampleDataset)
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts the HTTP server in the background. A listen failure
// cancels the context.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	if err := a.performStartupHealthCheck(ctx); err != nil {
		a.Logger.WarnContext(ctx, "Startup health check warnings", slog.String("warnings", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	removed := a.DatasetService.InvalidateAll(shutdownCtx)
	a.Logger.InfoContext(ctx, "Dataset cache cleared", slog.Int("entries", removed))
	a.Hub.Stop()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until interrupted or the server fails.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	case <-ctx.Done():
		a.Logger.ErrorContext(ctx, "Server stopped unexpectedly")
	}

	return a.Stop(context.Background())
}

// performStartupHealthCheck verifies the working directories are writable
// and reports a missing sample dataset.
func (a *Application) performStartupHealthCheck(ctx context.Context) error {
	var warnings []string

	directories := map[string]string{
		"Data":    a.Paths.DataDir,
		"Reports": a.Paths.ReportsDir,
		"Logs":    a.Paths.LogsDir,
	}
	validator := validation.NewFileValidator(a.Logger)
	for name, dir := range directories {
		if err := validator.ValidateOutputDirectory(dir); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s directory not writable: %s", name, dir))
		}
	}

	if a.Paths.SampleDataset != "" && !config.FileExists(a.Paths.SampleDataset) {
		a.Logger.InfoContext(ctx, "Sample dataset not found",
			slog.String("path", a.Paths.SampleDataset))
	}

	if len(warnings) > 0 {
		return fmt.Errorf("startup health check warnings: %s", strings.Join(warnings, "; "))
	}

	a.Logger.InfoContext(ctx, "Startup health check passed")
	return nil
}

package app

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/David1r20/painel-educacional/internal/cache"
	"github.com/David1r20/painel-educacional/internal/charts"
	"github.com/David1r20/painel-educacional/internal/config"
	apierrors "github.com/David1r20/painel-educacional/internal/errors"
	"github.com/David1r20/painel-educacional/internal/gradebook"
	"github.com/David1r20/painel-educacional/internal/infrastructure"
	customMiddleware "github.com/David1r20/painel-educacional/internal/middleware"
	"github.com/David1r20/painel-educacional/internal/services"
	handlers "github.com/David1r20/painel-educacional/internal/transport/http"
	ws "github.com/David1r20/painel-educacional/internal/websocket"
	"github.com/David1r20/painel-educacional/pkg/contracts"
)

// Version is set at build time with -ldflags "-X ...app.Version=v1.2.3".
var Version = contracts.Version

var (
	// BuildTime is set at compile time
	BuildTime = time.Now().Format(time.RFC3339)
	// BuildID is a unique identifier for this build
	BuildID = generateBuildID()
)

func generateBuildID() string {
	h := sha256.New()
	h.Write([]byte(Version))
	h.Write([]byte(time.Now().Format("2006-01-02")))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}

// compressibleTypes are the response types gzipped by the router.
var compressibleTypes = []string{
	"application/json",
	"application/problem+json",
	"text/html",
	"text/csv",
	"image/svg+xml",
}

// Application represents the main application container
type Application struct {
	Config           *config.Config
	Router           *chi.Mux
	Server           *http.Server
	WebSocketHub     *ws.Hub
	Datasets         *cache.DatasetCache
	DashboardService *services.DashboardService
	HealthService    *services.HealthService
	Logger           *slog.Logger
	OTelProviders    *infrastructure.OTelProviders
	Metrics          *infrastructure.BusinessMetrics

	errorHandler *apierrors.ErrorHandler
	wsMetrics    *ws.OTelMetrics
	stopOnce     sync.Once
	stopErr      error

	mu         sync.RWMutex
	listenAddr string
}

// NewApplicationFromEnvironment loads the configuration, initializes the
// global logger and builds the application.
func NewApplicationFromEnvironment() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return NewApplication(cfg, logger)
}

// NewApplication wires every component for cfg. The websocket hub is
// started; call Stop to release it.
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", Version),
		slog.String("address", cfg.Server.Addr()))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry, Version), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	wsMetrics, err := ws.NewOTelMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize WebSocket OpenTelemetry metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		errorHandler:  apierrors.NewErrorHandler(logger, cfg.Telemetry.Environment == "development"),
		wsMetrics:     wsMetrics,
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() error {
	extractor, err := gradebook.NewExtractor(a.Config.Layout.Gradebook(), a.Logger)
	if err != nil {
		return apierrors.NewConfigError("invalid gradebook layout", err)
	}

	hub := ws.NewHub(a.Logger,
		ws.WithSettings(ws.SettingsFrom(a.Config.WebSocket)),
		ws.WithOTelMetrics(a.wsMetrics),
	)
	hub.Start()
	a.WebSocketHub = hub

	a.Datasets = cache.NewDatasetCache(a.Config.Cache.TTL, a.Config.Cache.MaxEntries, a.Config.Cache.SweepInterval)

	a.DashboardService = services.NewDashboardService(extractor, a.Datasets, hub, a.Logger).
		WithMaxUploadBytes(a.Config.Upload.MaxBytes).
		WithMetrics(a.Metrics).
		WithRenderer(charts.NewRenderer(a.Config.Charts.Width, a.Config.Charts.Height))

	a.HealthService = services.NewHealthServiceWithBuildInfo(
		Version,
		config.RepoURL,
		BuildTime,
		BuildID,
		a.Datasets,
		hub,
		a.Logger,
	)

	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// Middleware that does not wrap the ResponseWriter, so the websocket
	// upgrade can hijack the connection.
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StripSlashes)

	// CORS answers preflights before routing, which only knows GET and POST.
	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(a.getCORSConfig()))
	}

	wsHandler := handlers.NewWebSocketHandler(a.WebSocketHub, a.Config.WebSocket,
		a.Config.Security.AllowedOrigins, a.wsMetrics, a.Logger)
	r.With(customMiddleware.WebSocketTraceMiddleware(a.Logger)).Handle(config.WebSocketEndpoint, wsHandler)

	r.Handle(config.MetricsEndpoint, a.OTelProviders.PrometheusHTTP)

	r.Group(func(r chi.Router) {
		// RequestID → RealIP → OTel → Logger → Recoverer → Timeout
		otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics)
		if err != nil {
			a.Logger.Error("Failed to create OpenTelemetry middleware", slog.String("error", err.Error()))
		} else {
			r.Use(otelMiddleware.Handler)
		}

		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.errorHandler))
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.errorHandler,
				a.Logger,
			).Handler)
		}

		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))
		r.Use(customMiddleware.Compress(5, compressibleTypes...))

		validator := customMiddleware.NewValidator(a.Logger)
		dashboard := handlers.NewDashboardHandler(a.DashboardService, validator, a.errorHandler,
			a.Config.Upload.MaxBytes, a.Logger)

		r.Route(config.APIBasePath, func(r chi.Router) {
			r.Use(render.SetContentType(render.ContentTypeJSON))

			handlers.NewHealthHandler(a.HealthService, a.Logger).Routes(r)
			r.Mount("/datasets", dashboard.Routes())
		})

		handlers.NewHTMLHandler(a.DashboardService, dashboard, a.errorHandler, a.Logger).Routes(r)
	})

	r.NotFound(a.errorHandler.NotFound)
	r.MethodNotAllowed(a.errorHandler.MethodNotAllowed)

	a.Router = r
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		Logger:         a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Server.Addr(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(a.Logger.Handler(), slog.LevelWarn),
	}
}

// Start binds the listener and serves in the background. A serve failure
// cancels ctx through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	listener, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}

	a.mu.Lock()
	a.listenAddr = listener.Addr().String()
	a.mu.Unlock()

	a.Logger.InfoContext(ctx, "Application started",
		slog.String("name", config.AppName),
		slog.String("version", Version),
		slog.String("address", listener.Addr().String()),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	return nil
}

// Addr returns the address the server is listening on, or "" before
// Start.
func (a *Application) Addr() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.listenAddr
}

// Stop gracefully stops the application. It is safe to call more than
// once.
func (a *Application) Stop(ctx context.Context) error {
	a.stopOnce.Do(func() { a.stopErr = a.shutdown(ctx) })
	return a.stopErr
}

func (a *Application) shutdown(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}

	// Hijacked websocket connections are not tracked by Shutdown.
	a.WebSocketHub.Stop()
	a.Datasets.Stop()

	if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
		a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return errors.Join(errs...)
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx, stop); err != nil {
		return err
	}

	<-ctx.Done()
	a.Logger.Info("Received interrupt signal")

	return a.Stop(context.Background())
}

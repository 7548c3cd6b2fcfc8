package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nexus/backend/internal/application/crud"
	"github.com/nexus/backend/internal/application/identity"
	"github.com/nexus/backend/internal/domain/shared"
	"github.com/nexus/backend/internal/infrastructure/auth"
	"github.com/nexus/backend/internal/infrastructure/config"
	"github.com/nexus/backend/internal/infrastructure/logger"
	"github.com/nexus/backend/internal/infrastructure/persistence"
	"github.com/nexus/backend/internal/infrastructure/storage"
	"github.com/nexus/backend/internal/infrastructure/telemetry"
	"github.com/nexus/backend/internal/interfaces/http/handler"
	"github.com/nexus/backend/internal/interfaces/http/middleware"
	"github.com/nexus/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx := context.Background()

	// The log provider must exist before the logger so its core can be teed in
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	})
	if err != nil {
		panic("Failed to initialize log export: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}, logProvider.Core(logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync(log)

	log.Info("Starting Nexus backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("store", cfg.Store.Driver),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Telemetry.ProfilingEnabled,
		ServerAddress:     cfg.Telemetry.ProfilingServerURL,
		ApplicationName:   cfg.Telemetry.ServiceName,
		BasicAuthUser:     cfg.Telemetry.ProfilingUser,
		BasicAuthPassword: cfg.Telemetry.ProfilingPassword,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && cfg.Telemetry.ProfilingSpanProfiles {
		tracerProvider.EnableSpanProfiles()
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics export", zap.Error(err))
	}

	// Open the record store, falling back to memory when configured
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), 200*time.Millisecond)
	openSQL := func(driver string) (*gorm.DB, error) {
		db, err := persistence.NewDatabase(driver, cfg.Database,
			persistence.WithGormLogger(gormLog),
			persistence.WithTracing(cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled),
		)
		if err != nil {
			return nil, err
		}
		return db.DB, nil
	}
	backendStore, backend, err := storage.NewFactory(cfg,
		storage.WithLogger(log),
		storage.WithSQLOpener(openSQL),
	).Create(ctx)
	if err != nil {
		log.Fatal("Failed to open record store", zap.Error(err))
	}

	var store shared.RecordStore = backendStore
	instrumented, err := storage.NewInstrumentedStore(backendStore, backend, meterProvider.Meter("nexus/storage"))
	if err != nil {
		log.Warn("Record store metrics disabled", zap.Error(err))
	} else {
		store = instrumented
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing record store", zap.Error(err))
		}
	}()

	registry := persistence.NewRegistry(store)
	if cfg.Store.Seed {
		if err := registry.Seed(ctx, log); err != nil {
			log.Fatal("Failed to seed record store", zap.Error(err))
		}
	}

	// Application services
	var opts []crud.Option
	if cfg.App.StrictValidation {
		opts = append(opts, crud.WithValidator(middleware.NewEntityValidator()))
	}

	jwtService := auth.NewJWTService(cfg.JWT)
	authService, err := identity.NewAuthService(registry.Users, jwtService, cfg.Auth.Password, cfg.Auth.DefaultUserID, log)
	if err != nil {
		log.Fatal("Failed to initialize authentication", zap.Error(err))
	}
	api := router.NewAPI(registry, authService, log, opts...)

	// HTTP engine
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	httpMetrics, err := middleware.NewHTTPMetrics("nexus")
	if err != nil {
		log.Fatal("Failed to register HTTP metrics", zap.Error(err))
	}

	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer limiter.Stop()
	}

	engine, err := router.NewEngine(router.EngineConfig{
		Logger:      log,
		HTTP:        cfg.HTTP,
		Production:  cfg.IsProduction(),
		ServiceName: cfg.Telemetry.ServiceName,
		Tracing:     tracerProvider.IsEnabled(),
		Profiling:   profiler.IsEnabled(),
		Metrics:     httpMetrics,
		RateLimiter: limiter,
		Actor: middleware.ActorConfig{
			Tokens:        jwtService,
			DefaultUserID: cfg.Auth.DefaultUserID,
			Logger:        log,
		},
		System: handler.NewSystemHandler(store, backend, version),
	}, api)
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr), zap.String("store", backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Tracer shutdown failed", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Meter shutdown failed", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Profiler shutdown failed", zap.Error(err))
	}
	if err := logProvider.Shutdown(shutdownCtx, log); err != nil {
		log.Error("Log provider shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

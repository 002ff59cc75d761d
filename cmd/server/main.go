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
	adviceapp "github.com/wealthcrm/backend/internal/application/advice"
	crmapp "github.com/wealthcrm/backend/internal/application/crm"
	"github.com/wealthcrm/backend/internal/domain/advice"
	"github.com/wealthcrm/backend/internal/infrastructure/advisor"
	"github.com/wealthcrm/backend/internal/infrastructure/cache"
	"github.com/wealthcrm/backend/internal/infrastructure/config"
	"github.com/wealthcrm/backend/internal/infrastructure/logger"
	"github.com/wealthcrm/backend/internal/infrastructure/migration"
	"github.com/wealthcrm/backend/internal/infrastructure/persistence"
	"github.com/wealthcrm/backend/internal/infrastructure/telemetry"
	"github.com/wealthcrm/backend/internal/interfaces/http/handler"
	"github.com/wealthcrm/backend/internal/interfaces/http/middleware"
	"github.com/wealthcrm/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

const slowQueryThreshold = 200 * time.Millisecond

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx := context.Background()

	// The OTLP logs bridge must exist before zap so it can be teed in
	logsProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	})
	if err != nil {
		panic("Failed to initialize OTLP logs: " + err.Error())
	}

	logCfg := logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}
	var log *zap.Logger
	if logsProvider.IsEnabled() {
		log, err = logger.New(logCfg, logsProvider.ZapCore(logger.ParseLevel(cfg.Log.Level)))
	} else {
		log, err = logger.New(logCfg)
	}
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting wealth CRM backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Profiling.Enabled,
		ServerAddress:     cfg.Profiling.ServerAddress,
		ApplicationName:   cfg.Profiling.ApplicationName,
		BasicAuthUser:     cfg.Profiling.BasicAuthUser,
		BasicAuthPassword: cfg.Profiling.BasicAuthPassword,
		Detailed:          cfg.Profiling.Detailed,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && cfg.Profiling.SpanProfiles {
		tracerProvider.EnableSpanProfiles()
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), slowQueryThreshold)

	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully", zap.String("driver", db.Driver))

	if cfg.Database.AutoMigrate {
		if err := migration.Apply(cfg.Database.MigrationURL(), log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: slowQueryThreshold,
		DBSystem:        dbSystem(cfg.Database.Driver),
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Initialize repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	reminderRepo := persistence.NewGormReminderRepository(db.DB)
	planRepo := persistence.NewGormPlanRepository(db.DB)

	crmMetrics, err := telemetry.NewCRMMetrics(telemetry.CRMMetricsConfig{
		Meter:  meterProvider.Meter("wealthcrm"),
		Logger: log,
	})
	if err != nil {
		log.Fatal("Failed to create CRM metrics", zap.Error(err))
	}
	if err := crmMetrics.ObserveOverdue(reminderRepo, time.Now); err != nil {
		log.Warn("Overdue reminder gauge unavailable", zap.Error(err))
	}

	// Initialize application services
	customerService := crmapp.NewCustomerService(customerRepo)
	reminderService := crmapp.NewReminderService(reminderRepo, customerRepo, crmapp.WithRecorder(crmMetrics))
	planService := crmapp.NewPlanService(planRepo, customerRepo, crmapp.WithRecorder(crmMetrics))

	provider, adviceMode, adviceCache := newAdviceProvider(ctx, cfg, log, crmMetrics)
	adviceService := adviceapp.NewAdviceService(customerRepo, provider, crmMetrics)

	// Initialize HTTP layer
	ginMode := gin.DebugMode
	if cfg.App.Env == "production" {
		ginMode = gin.ReleaseMode
	}
	cors := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	httpMeter := meterProvider.Meter("wealthcrm/http")
	if !meterProvider.IsEnabled() {
		httpMeter = nil
	}
	engine, err := router.NewEngine(router.EngineConfig{
		Mode:           ginMode,
		ServiceName:    cfg.Telemetry.ServiceName,
		TracingEnabled: tracerProvider.IsEnabled(),
		Meter:          httpMeter,
		Profiling:      profiler.IsEnabled(),
		CORS:           cors,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		TrustedProxies: cfg.HTTP.TrustedProxies,
	}, log)
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	router.NewRouter(engine).
		Register(router.CRMRoutes(router.Handlers{
			Customer: handler.NewCustomerHandler(customerService, adviceService),
			Reminder: handler.NewReminderHandler(reminderService),
			Plan:     handler.NewPlanHandler(planService),
			Advice:   handler.NewAdviceHandler(adviceService),
			Health:   handler.NewHealthHandler(db, adviceMode, version),
		})...).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr), zap.String("advice_mode", adviceMode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if adviceCache != nil {
		if err := adviceCache.Close(); err != nil {
			log.Error("Error closing advice cache", zap.Error(err))
		}
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}

	log.Info("Server exited gracefully")
	_ = log.Sync()
	if err := logsProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down logs provider", zap.Error(err))
	}
}

// newAdviceProvider returns nil (the deterministic engine) unless the remote
// advisor is enabled, in which case remote output is cached and any failure
// falls back to the deterministic engine. The returned cache store, when not
// nil, is owned by the caller and must be closed after the server stops.
func newAdviceProvider(ctx context.Context, cfg *config.Config, log *zap.Logger, observer adviceapp.Observer) (advice.Provider, string, cache.Store) {
	if !cfg.Advisor.RemoteEnabled {
		return nil, "deterministic", nil
	}

	var primary advice.Provider = advisor.NewRemoteAdvisor(advisor.Config{
		APIKey:     cfg.Advisor.APIKey,
		BaseURL:    cfg.Advisor.BaseURL,
		Model:      cfg.Advisor.Model,
		Timeout:    cfg.Advisor.Timeout,
		MaxRetries: cfg.Advisor.MaxRetries,
	}, log.Named("advisor"))

	var store cache.Store
	if cfg.Advisor.CacheTTL > 0 {
		created, err := cache.NewStoreFactory(cfg.Redis,
			cache.WithLogger(log),
			cache.WithInMemoryFallback(true),
		).CreateStore(ctx)
		if err != nil {
			log.Warn("Advice cache unavailable, continuing without it", zap.Error(err))
		} else {
			store = created
			primary = adviceapp.NewCachedAdvisor(primary, store, cfg.Advisor.CacheTTL, log)
		}
	}

	return adviceapp.NewFallbackAdvisor(primary, advice.NewDeterministicAdvisor(), log, observer), "remote", store
}

func dbSystem(driver string) string {
	if driver == config.DriverSQLite {
		return "sqlite"
	}
	return "postgresql"
}

package router

import (
	"github.com/gin-gonic/gin"
	"github.com/wealthcrm/backend/internal/infrastructure/logger"
	"github.com/wealthcrm/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// EngineConfig configures the middleware chain of the gin engine
type EngineConfig struct {
	Mode           string // gin.DebugMode, gin.ReleaseMode or gin.TestMode
	ServiceName    string
	TracingEnabled bool
	TracerProvider trace.TracerProvider // nil uses the global provider
	Meter          metric.Meter         // nil disables HTTP metrics
	Profiling      bool
	CORS           middleware.CORSConfig
	MaxBodySize    int64
	TrustedProxies []string
}

// NewEngine builds a gin engine with the standard middleware chain:
// recovery, request ID, tracing, metrics, profiling labels, request
// logging, security headers, CORS and the body size limit.
func NewEngine(cfg EngineConfig, log *zap.Logger) (*gin.Engine, error) {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName:    cfg.ServiceName,
		Enabled:        cfg.TracingEnabled,
		TracerProvider: cfg.TracerProvider,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(cfg.Meter))
	if cfg.Profiling {
		engine.Use(middleware.Profiling(middleware.DefaultProfilingConfig()))
	}
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(cfg.CORS))
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}
	return engine, nil
}

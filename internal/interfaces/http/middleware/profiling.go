package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wealthcrm/backend/internal/infrastructure/telemetry"
)

// ProfilingConfig holds configuration for the profiling middleware.
type ProfilingConfig struct {
	Enabled bool
	// SkipPaths are exact request paths served without labels
	SkipPaths []string
}

// DefaultProfilingConfig skips the health probe.
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:   true,
		SkipPaths: []string{"/api/v1/health"},
	}
}

// Profiling attaches method, route and resource labels to the goroutine
// serving the request so CPU samples can be split by endpoint in Pyroscope.
func Profiling(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		telemetry.WithProfilingLabels(c.Request.Context(), profilingLabels(c), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func profilingLabels(c *gin.Context) map[string]string {
	route := c.FullPath()
	return map[string]string{
		telemetry.ProfilingLabelMethod:   c.Request.Method,
		telemetry.ProfilingLabelRoute:    route,
		telemetry.ProfilingLabelResource: resourceFromRoute(route),
	}
}

// resourceFromRoute returns the first segment after the version prefix,
// e.g. "/api/v1/customers/:id/advice" -> "customers".
func resourceFromRoute(route string) string {
	segments := strings.Split(strings.Trim(route, "/"), "/")
	for i, s := range segments {
		if s == "" || s == "api" || strings.HasPrefix(s, ":") {
			continue
		}
		if i > 0 && segments[i-1] == "api" {
			continue // version
		}
		return s
	}
	return ""
}

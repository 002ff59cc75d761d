package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestResourceFromRoute(t *testing.T) {
	tests := []struct {
		route string
		want  string
	}{
		{"/api/v1/customers", "customers"},
		{"/api/v1/customers/:id/advice", "customers"},
		{"/api/v1/reminders/stats", "reminders"},
		{"/api/v2/plans/:id/status", "plans"},
		{"/health", "health"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resourceFromRoute(tt.route), tt.route)
	}
}

func TestProfiling(t *testing.T) {
	gin.SetMode(gin.TestMode)

	serve := func(cfg ProfilingConfig, path string) (string, bool) {
		var route string
		var labelled bool
		r := gin.New()
		r.Use(Profiling(cfg))
		handler := func(c *gin.Context) {
			route, labelled = pprof.Label(c.Request.Context(), "route")
			c.Status(http.StatusOK)
		}
		r.GET("/api/v1/reminders/:id", handler)
		r.GET("/api/v1/health", handler)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code)
		return route, labelled
	}

	t.Run("labels the matched route", func(t *testing.T) {
		route, ok := serve(DefaultProfilingConfig(), "/api/v1/reminders/123")
		assert.True(t, ok)
		assert.Equal(t, "/api/v1/reminders/:id", route)
	})

	t.Run("skips the health probe", func(t *testing.T) {
		_, ok := serve(DefaultProfilingConfig(), "/api/v1/health")
		assert.False(t, ok)
	})

	t.Run("disabled passes through", func(t *testing.T) {
		_, ok := serve(ProfilingConfig{}, "/api/v1/reminders/123")
		assert.False(t, ok)
	})
}

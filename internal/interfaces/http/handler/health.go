package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wealthcrm/backend/internal/infrastructure/logger"
	"github.com/wealthcrm/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping() error
}

// HealthHandler reports service liveness and store reachability
type HealthHandler struct {
	BaseHandler
	db         Pinger
	adviceMode string
	version    string
	startTime  time.Time
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Advisor  string `json:"advisor"`
	Version  string `json:"version"`
	Uptime   string `json:"uptime"`
}

// NewHealthHandler creates a new HealthHandler. adviceMode names the
// configured advice path (remote or deterministic).
func NewHealthHandler(db Pinger, adviceMode, version string) *HealthHandler {
	return &HealthHandler{
		db:         db,
		adviceMode: adviceMode,
		version:    version,
		startTime:  time.Now(),
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:   "ok",
		Database: "up",
		Advisor:  h.adviceMode,
		Version:  h.version,
		Uptime:   time.Since(h.startTime).Round(time.Second).String(),
	}

	if err := h.db.Ping(); err != nil {
		logger.L(c.Request.Context()).Warn("Health check: database unreachable", zap.Error(err))
		resp.Status = "degraded"
		resp.Database = "down"
		c.JSON(http.StatusServiceUnavailable, dto.Response{
			Success: false,
			Data:    resp,
			Error:   &dto.ErrorInfo{Code: dto.ErrCodeUnavailable, Message: "database unreachable"},
		})
		return
	}
	h.Success(c, resp)
}

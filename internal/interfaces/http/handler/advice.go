package handler

import (
	"github.com/gin-gonic/gin"
	adviceapp "github.com/wealthcrm/backend/internal/application/advice"
)

// AdviceHandler serves advice for ad hoc profiles
type AdviceHandler struct {
	BaseHandler
	advice *adviceapp.AdviceService
}

// NewAdviceHandler creates a new AdviceHandler
func NewAdviceHandler(advice *adviceapp.AdviceService) *AdviceHandler {
	return &AdviceHandler{advice: advice}
}

// Generate handles POST /advice
func (h *AdviceHandler) Generate(c *gin.Context) {
	var req adviceapp.ProfileRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.advice.ForProfile(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

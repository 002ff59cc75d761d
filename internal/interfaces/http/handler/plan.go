package handler

import (
	"github.com/gin-gonic/gin"
	crmapp "github.com/wealthcrm/backend/internal/application/crm"
)

// PlanHandler handles communication plan endpoints
type PlanHandler struct {
	BaseHandler
	plans *crmapp.PlanService
}

// NewPlanHandler creates a new PlanHandler
func NewPlanHandler(plans *crmapp.PlanService) *PlanHandler {
	return &PlanHandler{plans: plans}
}

// Create handles POST /plans
func (h *PlanHandler) Create(c *gin.Context) {
	var req crmapp.CreatePlanRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.plans.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List handles GET /plans?search=&status=
func (h *PlanHandler) List(c *gin.Context) {
	var filter crmapp.PlanListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	resp, err := h.plans.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, resp, len(resp))
}

// Get handles GET /plans/:id
func (h *PlanHandler) Get(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	resp, err := h.plans.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update handles PUT /plans/:id
func (h *PlanHandler) Update(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req crmapp.UpdatePlanRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.plans.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateStatus handles PATCH /plans/:id/status
func (h *PlanHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req crmapp.UpdateStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.plans.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /plans/:id
func (h *PlanHandler) Delete(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	if err := h.plans.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

package handler

import (
	"github.com/gin-gonic/gin"
	crmapp "github.com/wealthcrm/backend/internal/application/crm"
)

// ReminderHandler handles communication reminder endpoints
type ReminderHandler struct {
	BaseHandler
	reminders *crmapp.ReminderService
}

// NewReminderHandler creates a new ReminderHandler
func NewReminderHandler(reminders *crmapp.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminders: reminders}
}

// Create handles POST /reminders
func (h *ReminderHandler) Create(c *gin.Context) {
	var req crmapp.CreateReminderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.reminders.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List handles GET /reminders?status=&priority=&customer_id=
func (h *ReminderHandler) List(c *gin.Context) {
	var filter crmapp.ReminderListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	resp, err := h.reminders.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, resp, len(resp))
}

// Stats handles GET /reminders/stats
func (h *ReminderHandler) Stats(c *gin.Context) {
	resp, err := h.reminders.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Get handles GET /reminders/:id
func (h *ReminderHandler) Get(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	resp, err := h.reminders.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update handles PUT /reminders/:id
func (h *ReminderHandler) Update(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req crmapp.UpdateReminderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.reminders.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateStatus handles PATCH /reminders/:id/status
func (h *ReminderHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req crmapp.UpdateStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.reminders.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /reminders/:id
func (h *ReminderHandler) Delete(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	if err := h.reminders.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

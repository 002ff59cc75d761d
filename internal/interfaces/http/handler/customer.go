package handler

import (
	"github.com/gin-gonic/gin"
	adviceapp "github.com/wealthcrm/backend/internal/application/advice"
	crmapp "github.com/wealthcrm/backend/internal/application/crm"
)

// CustomerHandler handles customer endpoints
type CustomerHandler struct {
	BaseHandler
	customers *crmapp.CustomerService
	advice    *adviceapp.AdviceService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customers *crmapp.CustomerService, advice *adviceapp.AdviceService) *CustomerHandler {
	return &CustomerHandler{customers: customers, advice: advice}
}

// Create handles POST /customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var req crmapp.CreateCustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.customers.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List handles GET /customers?search=
func (h *CustomerHandler) List(c *gin.Context) {
	resp, err := h.customers.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, resp, len(resp))
}

// Get handles GET /customers/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	resp, err := h.customers.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Advice handles GET /customers/:id/advice
func (h *CustomerHandler) Advice(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}
	resp, err := h.advice.ForCustomer(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

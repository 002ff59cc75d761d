package router

import (
	"github.com/gin-gonic/gin"
	"github.com/wealthcrm/backend/internal/interfaces/http/handler"
)

// Handlers groups the HTTP handlers served under /api/v1
type Handlers struct {
	Customer *handler.CustomerHandler
	Reminder *handler.ReminderHandler
	Plan     *handler.PlanHandler
	Advice   *handler.AdviceHandler
	Health   *handler.HealthHandler
}

// CRMRoutes returns the route groups of the CRM API
func CRMRoutes(h Handlers) []RouteRegistrar {
	customers := NewDomainGroup("customers", "/customers").
		POST("", h.Customer.Create).
		GET("", h.Customer.List).
		GET("/:id", h.Customer.Get).
		GET("/:id/advice", h.Customer.Advice)

	advice := NewDomainGroup("advice", "/advice").
		POST("", h.Advice.Generate)

	reminders := NewDomainGroup("reminders", "/reminders").
		POST("", h.Reminder.Create).
		GET("", h.Reminder.List).
		GET("/stats", h.Reminder.Stats).
		GET("/:id", h.Reminder.Get).
		PUT("/:id", h.Reminder.Update).
		PATCH("/:id/status", h.Reminder.UpdateStatus).
		DELETE("/:id", h.Reminder.Delete)

	plans := NewDomainGroup("plans", "/plans").
		POST("", h.Plan.Create).
		GET("", h.Plan.List).
		GET("/:id", h.Plan.Get).
		PUT("/:id", h.Plan.Update).
		PATCH("/:id/status", h.Plan.UpdateStatus).
		DELETE("/:id", h.Plan.Delete)

	return []RouteRegistrar{
		customers,
		advice,
		reminders,
		plans,
		registrarFunc(func(rg *gin.RouterGroup) { rg.GET("/health", h.Health.Health) }),
	}
}

// registrarFunc adapts a function to RouteRegistrar
type registrarFunc func(rg *gin.RouterGroup)

func (f registrarFunc) RegisterRoutes(rg *gin.RouterGroup) { f(rg) }

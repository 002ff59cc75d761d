package crm

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wealthcrm/backend/internal/domain/crm"
)

// FilterAll disables a status or priority filter
const FilterAll = "all"

// CreateCustomerRequest represents a request to create a customer
type CreateCustomerRequest struct {
	Name           string           `json:"name" binding:"max=200"`
	TotalAssets    *decimal.Decimal `json:"total_assets"`
	RiskLevel      string           `json:"risk_level" binding:"max=50"`
	InvestmentGoal string           `json:"investment_goal" binding:"max=500"`
	Phone          string           `json:"phone" binding:"max=50"`
	Email          string           `json:"email" binding:"omitempty,email,max=200"`
	Notes          string           `json:"notes" binding:"max=2000"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	TotalAssets    decimal.Decimal `json:"total_assets"`
	RiskLevel      string          `json:"risk_level"`
	InvestmentGoal string          `json:"investment_goal"`
	Phone          string          `json:"phone,omitempty"`
	Email          string          `json:"email,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func toCustomerResponse(c *crm.Customer) CustomerResponse {
	return CustomerResponse{
		ID:             c.ID,
		Name:           c.Name,
		TotalAssets:    c.TotalAssets,
		RiskLevel:      c.RiskLevel,
		InvestmentGoal: c.InvestmentGoal,
		Phone:          c.Phone,
		Email:          c.Email,
		Notes:          c.Notes,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// CreateReminderRequest represents a request to create a reminder.
// Priority, status and type fall back to medium, pending and follow_up.
type CreateReminderRequest struct {
	CustomerID  string     `json:"customer_id"`
	PlanID      *uuid.UUID `json:"plan_id"`
	RecordID    *uuid.UUID `json:"record_id"`
	Type        string     `json:"reminder_type" binding:"max=30"`
	Title       string     `json:"title" binding:"max=200"`
	Description string     `json:"description" binding:"max=2000"`
	DueDate     string     `json:"due_date" binding:"duedate"`
	Priority    string     `json:"priority" binding:"max=20"`
	Status      string     `json:"status" binding:"max=20"`
	Assignee    string     `json:"assignee" binding:"max=100"`
}

// UpdateReminderRequest is a partial update; nil fields are left unchanged
type UpdateReminderRequest struct {
	PlanID      *uuid.UUID `json:"plan_id"`
	RecordID    *uuid.UUID `json:"record_id"`
	Type        *string    `json:"reminder_type" binding:"omitempty,max=30"`
	Title       *string    `json:"title" binding:"omitempty,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	DueDate     *string    `json:"due_date" binding:"omitempty,duedate"`
	Priority    *string    `json:"priority" binding:"omitempty,max=20"`
	Status      *string    `json:"status" binding:"omitempty,max=20"`
	Assignee    *string    `json:"assignee" binding:"omitempty,max=100"`
}

// UpdateStatusRequest carries a status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,max=20"`
}

// ReminderListFilter selects reminders for listing. Empty or "all" status
// and priority disable that filter.
type ReminderListFilter struct {
	Status     string `form:"status"`
	Priority   string `form:"priority"`
	CustomerID string `form:"customer_id"`
}

// ReminderResponse represents a reminder in API responses
type ReminderResponse struct {
	ID            uuid.UUID  `json:"id"`
	CustomerID    uuid.UUID  `json:"customer_id"`
	CustomerName  string     `json:"customer_name"`
	PlanID        *uuid.UUID `json:"plan_id,omitempty"`
	RecordID      *uuid.UUID `json:"record_id,omitempty"`
	Type          string     `json:"reminder_type"`
	TypeLabel     string     `json:"reminder_type_label"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	DueDate       time.Time  `json:"due_date"`
	Priority      string     `json:"priority"`
	PriorityLabel string     `json:"priority_label"`
	Status        string     `json:"status"`
	StatusLabel   string     `json:"status_label"`
	Assignee      string     `json:"assignee,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	Overdue       bool       `json:"overdue"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func toReminderResponse(r *crm.CommunicationReminder, overdue bool) ReminderResponse {
	return ReminderResponse{
		ID:            r.ID,
		CustomerID:    r.CustomerID,
		CustomerName:  r.CustomerName,
		PlanID:        r.PlanID,
		RecordID:      r.RecordID,
		Type:          string(r.Type),
		TypeLabel:     r.Type.Label(),
		Title:         r.Title,
		Description:   r.Description,
		DueDate:       r.DueDate,
		Priority:      string(r.Priority),
		PriorityLabel: r.Priority.Label(),
		Status:        string(r.Status),
		StatusLabel:   r.Status.Label(),
		Assignee:      r.Assignee,
		CompletedAt:   r.CompletedAt,
		Overdue:       overdue,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// ReminderStats summarizes reminders per status
type ReminderStats struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
	Overdue  int64            `json:"overdue"`
}

// CreatePlanRequest represents a request to create a communication plan.
// Type, frequency and status fall back to other, monthly and active.
type CreatePlanRequest struct {
	CustomerID      string  `json:"customer_id"`
	PlanName        string  `json:"plan_name" binding:"max=200"`
	PlanType        string  `json:"plan_type" binding:"max=40"`
	Frequency       string  `json:"frequency" binding:"max=20"`
	NextContactDate string  `json:"next_contact_date" binding:"duedate"`
	TargetDate      *string `json:"target_date" binding:"omitempty,duedate"`
	Status          string  `json:"status" binding:"max=20"`
	Agenda          string  `json:"agenda" binding:"max=2000"`
	Objectives      string  `json:"objectives" binding:"max=2000"`
	Notes           string  `json:"notes" binding:"max=2000"`
}

// UpdatePlanRequest is a partial update; nil fields are left unchanged
type UpdatePlanRequest struct {
	PlanName        *string `json:"plan_name" binding:"omitempty,max=200"`
	PlanType        *string `json:"plan_type" binding:"omitempty,max=40"`
	Frequency       *string `json:"frequency" binding:"omitempty,max=20"`
	NextContactDate *string `json:"next_contact_date" binding:"omitempty,duedate"`
	TargetDate      *string `json:"target_date" binding:"omitempty,duedate"` // "" clears the target date
	Status          *string `json:"status" binding:"omitempty,max=20"`
	Agenda          *string `json:"agenda" binding:"omitempty,max=2000"`
	Objectives      *string `json:"objectives" binding:"omitempty,max=2000"`
	Notes           *string `json:"notes" binding:"omitempty,max=2000"`
}

// PlanListFilter selects plans for listing
type PlanListFilter struct {
	Search string `form:"search"`
	Status string `form:"status"`
}

// PlanResponse represents a communication plan in API responses
type PlanResponse struct {
	ID              uuid.UUID  `json:"id"`
	CustomerID      uuid.UUID  `json:"customer_id"`
	CustomerName    string     `json:"customer_name"`
	PlanName        string     `json:"plan_name"`
	PlanType        string     `json:"plan_type"`
	PlanTypeLabel   string     `json:"plan_type_label"`
	Frequency       string     `json:"frequency"`
	FrequencyLabel  string     `json:"frequency_label"`
	NextContactDate time.Time  `json:"next_contact_date"`
	TargetDate      *time.Time `json:"target_date,omitempty"`
	Status          string     `json:"status"`
	StatusLabel     string     `json:"status_label"`
	Agenda          string     `json:"agenda,omitempty"`
	Objectives      string     `json:"objectives,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func toPlanResponse(p *crm.CommunicationPlan) PlanResponse {
	return PlanResponse{
		ID:              p.ID,
		CustomerID:      p.CustomerID,
		CustomerName:    p.CustomerName,
		PlanName:        p.Name,
		PlanType:        string(p.Type),
		PlanTypeLabel:   p.Type.Label(),
		Frequency:       string(p.Frequency),
		FrequencyLabel:  p.Frequency.Label(),
		NextContactDate: p.NextContactDate,
		TargetDate:      p.TargetDate,
		Status:          string(p.Status),
		StatusLabel:     p.Status.Label(),
		Agenda:          p.Agenda,
		Objectives:      p.Objectives,
		Notes:           p.Notes,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

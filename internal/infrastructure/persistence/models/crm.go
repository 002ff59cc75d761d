package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wealthcrm/backend/internal/domain/crm"
)

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	BaseModel
	Name           string          `gorm:"type:varchar(200);not null;index"`
	TotalAssets    decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	RiskLevel      string          `gorm:"type:varchar(50)"`
	InvestmentGoal string          `gorm:"type:text"`
	Phone          string          `gorm:"type:varchar(50)"`
	Email          string          `gorm:"type:varchar(200)"`
	Notes          string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *crm.Customer {
	return &crm.Customer{
		BaseEntity:     m.BaseModel.ToDomain(),
		Name:           m.Name,
		TotalAssets:    m.TotalAssets,
		RiskLevel:      m.RiskLevel,
		InvestmentGoal: m.InvestmentGoal,
		Phone:          m.Phone,
		Email:          m.Email,
		Notes:          m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *crm.Customer) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.TotalAssets = c.TotalAssets
	m.RiskLevel = c.RiskLevel
	m.InvestmentGoal = c.InvestmentGoal
	m.Phone = c.Phone
	m.Email = c.Email
	m.Notes = c.Notes
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *crm.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// ReminderModel is the persistence model for CommunicationReminder.
// CustomerName is read-only and only populated by joined queries.
type ReminderModel struct {
	BaseModel
	CustomerID   uuid.UUID          `gorm:"type:varchar(36);not null;index"`
	CustomerName string             `gorm:"->;-:migration"`
	PlanID       *uuid.UUID         `gorm:"type:varchar(36);index"`
	RecordID     *uuid.UUID         `gorm:"type:varchar(36)"`
	Type         crm.ReminderType   `gorm:"column:reminder_type;type:varchar(30);not null;default:'follow_up'"`
	Title        string             `gorm:"type:varchar(200);not null"`
	Description  string             `gorm:"type:text"`
	DueDate      time.Time          `gorm:"not null;index"`
	Priority     crm.Priority       `gorm:"type:varchar(20);not null;default:'medium'"`
	Status       crm.ReminderStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	Assignee     string             `gorm:"type:varchar(100)"`
	CompletedAt  *time.Time
}

// TableName returns the table name for GORM
func (ReminderModel) TableName() string {
	return "communication_reminders"
}

// ToDomain converts the persistence model to a domain CommunicationReminder.
func (m *ReminderModel) ToDomain() *crm.CommunicationReminder {
	return &crm.CommunicationReminder{
		BaseEntity:   m.BaseModel.ToDomain(),
		CustomerID:   m.CustomerID,
		CustomerName: m.CustomerName,
		PlanID:       m.PlanID,
		RecordID:     m.RecordID,
		Type:         m.Type,
		Title:        m.Title,
		Description:  m.Description,
		DueDate:      m.DueDate,
		Priority:     m.Priority,
		Status:       m.Status,
		Assignee:     m.Assignee,
		CompletedAt:  m.CompletedAt,
	}
}

// FromDomain populates the persistence model from a domain CommunicationReminder.
func (m *ReminderModel) FromDomain(r *crm.CommunicationReminder) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.CustomerID = r.CustomerID
	m.PlanID = r.PlanID
	m.RecordID = r.RecordID
	m.Type = r.Type
	m.Title = r.Title
	m.Description = r.Description
	m.DueDate = r.DueDate
	m.Priority = r.Priority
	m.Status = r.Status
	m.Assignee = r.Assignee
	m.CompletedAt = r.CompletedAt
}

// ReminderModelFromDomain creates a new persistence model from a domain CommunicationReminder.
func ReminderModelFromDomain(r *crm.CommunicationReminder) *ReminderModel {
	m := &ReminderModel{}
	m.FromDomain(r)
	return m
}

// PlanModel is the persistence model for CommunicationPlan.
type PlanModel struct {
	BaseModel
	CustomerID      uuid.UUID     `gorm:"type:varchar(36);not null;index"`
	CustomerName    string        `gorm:"->;-:migration"`
	Name            string        `gorm:"column:plan_name;type:varchar(200);not null"`
	Type            crm.PlanType  `gorm:"column:plan_type;type:varchar(40);not null;default:'other'"`
	Frequency       crm.Frequency `gorm:"type:varchar(20);not null;default:'monthly'"`
	NextContactDate time.Time     `gorm:"not null"`
	TargetDate      *time.Time
	Status          crm.PlanStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	Agenda          string         `gorm:"type:text"`
	Objectives      string         `gorm:"type:text"`
	Notes           string         `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PlanModel) TableName() string {
	return "communication_plans"
}

// ToDomain converts the persistence model to a domain CommunicationPlan.
func (m *PlanModel) ToDomain() *crm.CommunicationPlan {
	return &crm.CommunicationPlan{
		BaseEntity:      m.BaseModel.ToDomain(),
		CustomerID:      m.CustomerID,
		CustomerName:    m.CustomerName,
		Name:            m.Name,
		Type:            m.Type,
		Frequency:       m.Frequency,
		NextContactDate: m.NextContactDate,
		TargetDate:      m.TargetDate,
		Status:          m.Status,
		Agenda:          m.Agenda,
		Objectives:      m.Objectives,
		Notes:           m.Notes,
	}
}

// FromDomain populates the persistence model from a domain CommunicationPlan.
func (m *PlanModel) FromDomain(p *crm.CommunicationPlan) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.CustomerID = p.CustomerID
	m.Name = p.Name
	m.Type = p.Type
	m.Frequency = p.Frequency
	m.NextContactDate = p.NextContactDate
	m.TargetDate = p.TargetDate
	m.Status = p.Status
	m.Agenda = p.Agenda
	m.Objectives = p.Objectives
	m.Notes = p.Notes
}

// PlanModelFromDomain creates a new persistence model from a domain CommunicationPlan.
func PlanModelFromDomain(p *crm.CommunicationPlan) *PlanModel {
	m := &PlanModel{}
	m.FromDomain(p)
	return m
}

// All returns every model managed by the CRM schema, in dependency order
func All() []any {
	return []any{&CustomerModel{}, &PlanModel{}, &ReminderModel{}}
}

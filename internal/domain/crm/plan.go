package crm

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wealthcrm/backend/internal/domain/shared"
	"golang.org/x/text/cases"
)

// PlanType classifies a communication plan
type PlanType string

const (
	PlanTypeInvestmentReview      PlanType = "investment_review"
	PlanTypePortfolioConsultation PlanType = "portfolio_consultation"
	PlanTypeGoalSetting           PlanType = "goal_setting"
	PlanTypeRiskAssessment        PlanType = "risk_assessment"
	PlanTypeRegularCheckup        PlanType = "regular_checkup"
	PlanTypeOther                 PlanType = "other"
)

var planTypeLabels = map[PlanType]string{
	PlanTypeInvestmentReview:      "Investment review",
	PlanTypePortfolioConsultation: "Portfolio consultation",
	PlanTypeGoalSetting:           "Goal setting",
	PlanTypeRiskAssessment:        "Risk assessment",
	PlanTypeRegularCheckup:        "Regular checkup",
	PlanTypeOther:                 "Other",
}

// IsKnown reports whether t is one of the enumerated plan types
func (t PlanType) IsKnown() bool {
	_, ok := planTypeLabels[t]
	return ok
}

// Label returns the display label. Unknown types render verbatim.
func (t PlanType) Label() string {
	if label, ok := planTypeLabels[t]; ok {
		return label
	}
	return passThroughLabel(string(t))
}

// Frequency is how often a plan expects contact
type Frequency string

const (
	FrequencyWeekly    Frequency = "weekly"
	FrequencyBiweekly  Frequency = "biweekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyAnnually  Frequency = "annually"
	FrequencyCustom    Frequency = "custom"
)

// IsKnown reports whether f is one of the enumerated frequencies
func (f Frequency) IsKnown() bool {
	switch f {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly, FrequencyQuarterly, FrequencyAnnually, FrequencyCustom:
		return true
	}
	return false
}

// Label returns the display label. Unknown frequencies render verbatim.
func (f Frequency) Label() string {
	if !f.IsKnown() {
		return passThroughLabel(string(f))
	}
	s := string(f)
	return strings.ToUpper(s[:1]) + s[1:]
}

// PlanStatus is the lifecycle state of a plan
type PlanStatus string

const (
	PlanStatusActive    PlanStatus = "active"
	PlanStatusPaused    PlanStatus = "paused"
	PlanStatusCompleted PlanStatus = "completed"
)

// IsKnown reports whether s is one of the enumerated plan statuses
func (s PlanStatus) IsKnown() bool {
	switch s {
	case PlanStatusActive, PlanStatusPaused, PlanStatusCompleted:
		return true
	}
	return false
}

// Label returns the display label. Unknown statuses render verbatim.
func (s PlanStatus) Label() string {
	switch s {
	case PlanStatusActive:
		return "Active"
	case PlanStatusPaused:
		return "Paused"
	case PlanStatusCompleted:
		return "Completed"
	default:
		return passThroughLabel(string(s))
	}
}

// CommunicationPlan schedules recurring contact with a customer
type CommunicationPlan struct {
	shared.BaseEntity
	CustomerID      uuid.UUID
	CustomerName    string // read-only, populated by the store
	Name            string
	Type            PlanType
	Frequency       Frequency
	NextContactDate time.Time
	TargetDate      *time.Time
	Status          PlanStatus
	Agenda          string
	Objectives      string
	Notes           string
}

// NewPlan creates an active monthly plan. Name and next-contact date are required.
func NewPlan(customerID uuid.UUID, name string, nextContact time.Time, now time.Time) (*CommunicationPlan, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("customer_id", "is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("plan_name", "is required")
	}
	if err := checkTitleLength("plan_name", name); err != nil {
		return nil, err
	}
	if nextContact.IsZero() {
		return nil, shared.NewValidationError("next_contact_date", "is required")
	}
	return &CommunicationPlan{
		BaseEntity:      shared.NewBaseEntity(now),
		CustomerID:      customerID,
		Name:            name,
		Type:            PlanTypeOther,
		Frequency:       FrequencyMonthly,
		NextContactDate: nextContact,
		Status:          PlanStatusActive,
	}, nil
}

// Rename replaces the plan name, rejecting blank values
func (p *CommunicationPlan) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("plan_name", "cannot be empty")
	}
	if err := checkTitleLength("plan_name", name); err != nil {
		return err
	}
	p.Name = name
	return nil
}

// PlanFilter selects plans for listing. An empty Search matches everything;
// an empty Status matches every status.
type PlanFilter struct {
	Search string
	Status PlanStatus
}

// Matches reports whether the plan passes the filter. Search is a
// case-insensitive substring test against plan name, customer name and
// plan type (raw value or label).
func (f PlanFilter) Matches(p *CommunicationPlan) bool {
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	needle := strings.TrimSpace(f.Search)
	if needle == "" {
		return true
	}
	// Casers are stateful, so each call gets its own.
	folder := cases.Fold()
	needle = folder.String(needle)
	for _, hay := range []string{p.Name, p.CustomerName, string(p.Type), p.Type.Label()} {
		if strings.Contains(folder.String(hay), needle) {
			return true
		}
	}
	return false
}

// PlanRepository persists communication plans.
// FindAll returns plans in insertion order with CustomerName populated.
type PlanRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CommunicationPlan, error)
	FindAll(ctx context.Context) ([]CommunicationPlan, error)
	Save(ctx context.Context, plan *CommunicationPlan) error
	Delete(ctx context.Context, id uuid.UUID) error
}

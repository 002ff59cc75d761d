package crm

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wealthcrm/backend/internal/domain/crm"
	"github.com/wealthcrm/backend/internal/domain/shared"
)

// PlanService handles communication plan use cases
type PlanService struct {
	plans     crm.PlanRepository
	customers crm.CustomerRepository
	clock     shared.Clock
	recorder  CommandRecorder
}

// NewPlanService creates a new PlanService
func NewPlanService(plans crm.PlanRepository, customers crm.CustomerRepository, opts ...Option) *PlanService {
	o := buildOptions(opts)
	return &PlanService{
		plans:     plans,
		customers: customers,
		clock:     o.clock,
		recorder:  o.recorder,
	}
}

func (s *PlanService) now() time.Time {
	return s.clock().UTC()
}

// Create validates and stores a new plan
func (s *PlanService) Create(ctx context.Context, req CreatePlanRequest) (resp *PlanResponse, err error) {
	defer func() { s.recorder.RecordPlanCommand(ctx, "create", err) }()

	customerID, err := parseID("customer_id", req.CustomerID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.PlanName) == "" {
		return nil, shared.NewValidationError("plan_name", "is required")
	}
	next, err := ParseDate("next_contact_date", req.NextContactDate)
	if err != nil {
		return nil, err
	}
	status, err := parsePlanStatus(req.Status, crm.PlanStatusActive)
	if err != nil {
		return nil, err
	}
	var target *time.Time
	if req.TargetDate != nil && strings.TrimSpace(*req.TargetDate) != "" {
		t, err := ParseDate("target_date", *req.TargetDate)
		if err != nil {
			return nil, err
		}
		target = &t
	}

	exists, err := s.customers.ExistsByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewValidationError("customer_id", "customer does not exist")
	}

	plan, err := crm.NewPlan(customerID, req.PlanName, next, s.now())
	if err != nil {
		return nil, err
	}
	if t := strings.TrimSpace(req.PlanType); t != "" {
		plan.Type = crm.PlanType(t)
	}
	if f := strings.TrimSpace(req.Frequency); f != "" {
		plan.Frequency = crm.Frequency(f)
	}
	plan.Status = status
	plan.TargetDate = target
	plan.Agenda = strings.TrimSpace(req.Agenda)
	plan.Objectives = strings.TrimSpace(req.Objectives)
	plan.Notes = strings.TrimSpace(req.Notes)

	if err := s.plans.Save(ctx, plan); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, plan.ID)
}

// GetByID returns one plan
func (s *PlanService) GetByID(ctx context.Context, id uuid.UUID) (*PlanResponse, error) {
	plan, err := s.plans.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toPlanResponse(plan)
	return &resp, nil
}

// Update merges the non-nil fields of req over the stored plan
func (s *PlanService) Update(ctx context.Context, id uuid.UUID, req UpdatePlanRequest) (resp *PlanResponse, err error) {
	defer func() { s.recorder.RecordPlanCommand(ctx, "update", err) }()
	return s.update(ctx, id, req)
}

func (s *PlanService) update(ctx context.Context, id uuid.UUID, req UpdatePlanRequest) (*PlanResponse, error) {
	plan, err := s.plans.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.PlanName != nil {
		if err := plan.Rename(*req.PlanName); err != nil {
			return nil, err
		}
	}
	if req.NextContactDate != nil {
		next, err := ParseDate("next_contact_date", *req.NextContactDate)
		if err != nil {
			return nil, err
		}
		plan.NextContactDate = next
	}
	if req.TargetDate != nil {
		if strings.TrimSpace(*req.TargetDate) == "" {
			plan.TargetDate = nil
		} else {
			t, err := ParseDate("target_date", *req.TargetDate)
			if err != nil {
				return nil, err
			}
			plan.TargetDate = &t
		}
	}
	if req.Status != nil {
		if strings.TrimSpace(*req.Status) == "" {
			return nil, shared.NewValidationError("status", "cannot be empty")
		}
		status, err := parsePlanStatus(*req.Status, plan.Status)
		if err != nil {
			return nil, err
		}
		plan.Status = status
	}
	if req.PlanType != nil {
		if t := strings.TrimSpace(*req.PlanType); t != "" {
			plan.Type = crm.PlanType(t)
		}
	}
	if req.Frequency != nil {
		if f := strings.TrimSpace(*req.Frequency); f != "" {
			plan.Frequency = crm.Frequency(f)
		}
	}
	if req.Agenda != nil {
		plan.Agenda = strings.TrimSpace(*req.Agenda)
	}
	if req.Objectives != nil {
		plan.Objectives = strings.TrimSpace(*req.Objectives)
	}
	if req.Notes != nil {
		plan.Notes = strings.TrimSpace(*req.Notes)
	}
	plan.Touch(s.now())

	if err := s.plans.Save(ctx, plan); err != nil {
		return nil, err
	}
	resp := toPlanResponse(plan)
	return &resp, nil
}

// SetStatus changes only the status of a plan
func (s *PlanService) SetStatus(ctx context.Context, id uuid.UUID, status string) (resp *PlanResponse, err error) {
	defer func() { s.recorder.RecordPlanCommand(ctx, "set_status", err) }()
	return s.update(ctx, id, UpdatePlanRequest{Status: &status})
}

// Delete removes a plan
func (s *PlanService) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer func() { s.recorder.RecordPlanCommand(ctx, "delete", err) }()
	return s.plans.Delete(ctx, id)
}

// List returns the plans matching filter in store order
func (s *PlanService) List(ctx context.Context, filter PlanListFilter) ([]PlanResponse, error) {
	status, err := parsePlanStatus(scope(filter.Status), "")
	if err != nil {
		return nil, err
	}
	plans, err := s.plans.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	match := crm.PlanFilter{Search: filter.Search, Status: status}
	out := make([]PlanResponse, 0, len(plans))
	for i := range plans {
		if match.Matches(&plans[i]) {
			out = append(out, toPlanResponse(&plans[i]))
		}
	}
	return out, nil
}

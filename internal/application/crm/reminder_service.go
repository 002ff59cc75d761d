package crm

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wealthcrm/backend/internal/domain/crm"
	"github.com/wealthcrm/backend/internal/domain/shared"
)

// ReminderService handles communication reminder use cases
type ReminderService struct {
	reminders crm.ReminderRepository
	customers crm.CustomerRepository
	clock     shared.Clock
	recorder  CommandRecorder
}

// NewReminderService creates a new ReminderService
func NewReminderService(reminders crm.ReminderRepository, customers crm.CustomerRepository, opts ...Option) *ReminderService {
	o := buildOptions(opts)
	return &ReminderService{
		reminders: reminders,
		customers: customers,
		clock:     o.clock,
		recorder:  o.recorder,
	}
}

func (s *ReminderService) now() time.Time {
	return s.clock().UTC()
}

// Create validates and stores a new reminder
func (s *ReminderService) Create(ctx context.Context, req CreateReminderRequest) (resp *ReminderResponse, err error) {
	defer func() { s.recorder.RecordReminderCommand(ctx, "create", err) }()

	customerID, err := parseID("customer_id", req.CustomerID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, shared.NewValidationError("title", "is required")
	}
	due, err := ParseDate("due_date", req.DueDate)
	if err != nil {
		return nil, err
	}
	priority, err := parsePriority(req.Priority, crm.PriorityMedium)
	if err != nil {
		return nil, err
	}
	status, err := parseReminderStatus(req.Status, crm.ReminderStatusPending)
	if err != nil {
		return nil, err
	}

	exists, err := s.customers.ExistsByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewValidationError("customer_id", "customer does not exist")
	}

	now := s.now()
	reminder, err := crm.NewReminder(customerID, req.Title, due, now)
	if err != nil {
		return nil, err
	}
	if t := strings.TrimSpace(req.Type); t != "" {
		reminder.Type = crm.ReminderType(t)
	}
	reminder.Priority = priority
	reminder.SetStatus(status, now)
	reminder.PlanID = req.PlanID
	reminder.RecordID = req.RecordID
	reminder.Description = strings.TrimSpace(req.Description)
	reminder.Assignee = strings.TrimSpace(req.Assignee)

	if err := s.reminders.Save(ctx, reminder); err != nil {
		return nil, err
	}
	return s.reload(ctx, reminder.ID)
}

// GetByID returns one reminder
func (s *ReminderService) GetByID(ctx context.Context, id uuid.UUID) (*ReminderResponse, error) {
	reminder, err := s.reminders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.respond(reminder), nil
}

// Update merges the non-nil fields of req over the stored reminder
func (s *ReminderService) Update(ctx context.Context, id uuid.UUID, req UpdateReminderRequest) (resp *ReminderResponse, err error) {
	defer func() { s.recorder.RecordReminderCommand(ctx, "update", err) }()
	return s.update(ctx, id, req)
}

func (s *ReminderService) update(ctx context.Context, id uuid.UUID, req UpdateReminderRequest) (*ReminderResponse, error) {
	reminder, err := s.reminders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()

	if req.Title != nil {
		if err := reminder.Rename(*req.Title); err != nil {
			return nil, err
		}
	}
	if req.DueDate != nil {
		due, err := ParseDate("due_date", *req.DueDate)
		if err != nil {
			return nil, err
		}
		reminder.DueDate = due
	}
	if req.Priority != nil {
		p, err := parsePriority(*req.Priority, reminder.Priority)
		if err != nil {
			return nil, err
		}
		reminder.Priority = p
	}
	if req.Status != nil {
		if strings.TrimSpace(*req.Status) == "" {
			return nil, shared.NewValidationError("status", "cannot be empty")
		}
		status, err := parseReminderStatus(*req.Status, reminder.Status)
		if err != nil {
			return nil, err
		}
		reminder.SetStatus(status, now)
	}
	if req.Type != nil {
		if t := strings.TrimSpace(*req.Type); t != "" {
			reminder.Type = crm.ReminderType(t)
		}
	}
	if req.Description != nil {
		reminder.Description = strings.TrimSpace(*req.Description)
	}
	if req.Assignee != nil {
		reminder.Assignee = strings.TrimSpace(*req.Assignee)
	}
	if req.PlanID != nil {
		reminder.PlanID = req.PlanID
	}
	if req.RecordID != nil {
		reminder.RecordID = req.RecordID
	}
	reminder.Touch(now)

	if err := s.reminders.Save(ctx, reminder); err != nil {
		return nil, err
	}
	return s.respond(reminder), nil
}

// SetStatus changes only the status of a reminder
func (s *ReminderService) SetStatus(ctx context.Context, id uuid.UUID, status string) (resp *ReminderResponse, err error) {
	defer func() { s.recorder.RecordReminderCommand(ctx, "set_status", err) }()
	return s.update(ctx, id, UpdateReminderRequest{Status: &status})
}

// Delete removes a reminder
func (s *ReminderService) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer func() { s.recorder.RecordReminderCommand(ctx, "delete", err) }()
	return s.reminders.Delete(ctx, id)
}

// List returns reminders in display order: overdue first when scoped to
// pending, then priority descending, then due date ascending.
func (s *ReminderService) List(ctx context.Context, filter ReminderListFilter) ([]ReminderResponse, error) {
	status, err := parseReminderStatus(scope(filter.Status), "")
	if err != nil {
		return nil, err
	}
	priority, err := parsePriority(scope(filter.Priority), "")
	if err != nil {
		return nil, err
	}
	query := crm.ReminderQuery{Status: status}
	if strings.TrimSpace(filter.CustomerID) != "" {
		if query.CustomerID, err = parseID("customer_id", filter.CustomerID); err != nil {
			return nil, err
		}
	}

	reminders, err := s.reminders.FindAll(ctx, query)
	if err != nil {
		return nil, err
	}

	now := s.now()
	reminders = crm.FilterByPriority(reminders, priority)
	crm.SortReminders(reminders, status, now)

	out := make([]ReminderResponse, len(reminders))
	for i := range reminders {
		out[i] = toReminderResponse(&reminders[i], reminders[i].IsOverdue(now, status))
	}
	return out, nil
}

// Stats counts reminders per status and the pending reminders past due
func (s *ReminderService) Stats(ctx context.Context) (*ReminderStats, error) {
	counts, err := s.reminders.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	overdue, err := s.reminders.CountOverdue(ctx, s.now())
	if err != nil {
		return nil, err
	}

	stats := &ReminderStats{ByStatus: make(map[string]int64, len(counts)), Overdue: overdue}
	for _, st := range crm.ReminderStatuses {
		stats.ByStatus[string(st)] = 0
	}
	for st, n := range counts {
		stats.ByStatus[string(st)] += n
		stats.Total += n
	}
	return stats, nil
}

func (s *ReminderService) reload(ctx context.Context, id uuid.UUID) (*ReminderResponse, error) {
	reminder, err := s.reminders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.respond(reminder), nil
}

// respond renders a single reminder as seen in its own status scope
func (s *ReminderService) respond(r *crm.CommunicationReminder) *ReminderResponse {
	resp := toReminderResponse(r, r.IsOverdue(s.now(), r.Status))
	return &resp
}

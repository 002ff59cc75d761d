package crm

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/wealthcrm/backend/internal/domain/shared"
)

// ReminderType classifies a communication reminder
type ReminderType string

const (
	ReminderTypeFollowUp    ReminderType = "follow_up"
	ReminderTypeMeeting     ReminderType = "meeting"
	ReminderTypeCall        ReminderType = "call"
	ReminderTypeDocument    ReminderType = "document"
	ReminderTypeReview      ReminderType = "review"
	ReminderTypeDeadline    ReminderType = "deadline"
	ReminderTypeBirthday    ReminderType = "birthday"
	ReminderTypeAnniversary ReminderType = "anniversary"
	ReminderTypeCustom      ReminderType = "custom"
)

var reminderTypeLabels = map[ReminderType]string{
	ReminderTypeFollowUp:    "Follow-up",
	ReminderTypeMeeting:     "Meeting",
	ReminderTypeCall:        "Call",
	ReminderTypeDocument:    "Document",
	ReminderTypeReview:      "Review",
	ReminderTypeDeadline:    "Deadline",
	ReminderTypeBirthday:    "Birthday",
	ReminderTypeAnniversary: "Anniversary",
	ReminderTypeCustom:      "Custom",
}

// IsKnown reports whether t is one of the enumerated reminder types
func (t ReminderType) IsKnown() bool {
	_, ok := reminderTypeLabels[t]
	return ok
}

// Label returns the display label. Unknown types render verbatim.
func (t ReminderType) Label() string {
	if label, ok := reminderTypeLabels[t]; ok {
		return label
	}
	return passThroughLabel(string(t))
}

// Priority ranks how urgent a reminder is
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Weight returns the ordering weight: high 3, medium 2, low 1, anything else 0
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// IsKnown reports whether p is one of the enumerated priorities
func (p Priority) IsKnown() bool {
	return p.Weight() > 0
}

// Label returns the display label. Unknown priorities render verbatim.
func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	default:
		return passThroughLabel(string(p))
	}
}

// ReminderStatus tracks a reminder through its lifecycle
type ReminderStatus string

const (
	ReminderStatusPending    ReminderStatus = "pending"
	ReminderStatusInProgress ReminderStatus = "in_progress"
	ReminderStatusCompleted  ReminderStatus = "completed"
	ReminderStatusCancelled  ReminderStatus = "cancelled"
)

// ReminderStatuses lists the enumerated statuses in display order
var ReminderStatuses = []ReminderStatus{
	ReminderStatusPending,
	ReminderStatusInProgress,
	ReminderStatusCompleted,
	ReminderStatusCancelled,
}

// IsKnown reports whether s is one of the enumerated statuses
func (s ReminderStatus) IsKnown() bool {
	switch s {
	case ReminderStatusPending, ReminderStatusInProgress, ReminderStatusCompleted, ReminderStatusCancelled:
		return true
	}
	return false
}

// Label returns the display label. Unknown statuses render verbatim.
func (s ReminderStatus) Label() string {
	switch s {
	case ReminderStatusPending:
		return "Pending"
	case ReminderStatusInProgress:
		return "In progress"
	case ReminderStatusCompleted:
		return "Completed"
	case ReminderStatusCancelled:
		return "Cancelled"
	default:
		return passThroughLabel(string(s))
	}
}

// CommunicationReminder is a dated to-do attached to a customer
type CommunicationReminder struct {
	shared.BaseEntity
	CustomerID   uuid.UUID
	CustomerName string // read-only, populated by the store
	PlanID       *uuid.UUID
	RecordID     *uuid.UUID
	Type         ReminderType
	Title        string
	Description  string
	DueDate      time.Time
	Priority     Priority
	Status       ReminderStatus
	Assignee     string
	CompletedAt  *time.Time
}

// NewReminder creates a pending, medium priority reminder.
// Title must be non-empty and due date set.
func NewReminder(customerID uuid.UUID, title string, dueDate time.Time, now time.Time) (*CommunicationReminder, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("customer_id", "is required")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewValidationError("title", "is required")
	}
	if err := checkTitleLength("title", title); err != nil {
		return nil, err
	}
	if dueDate.IsZero() {
		return nil, shared.NewValidationError("due_date", "is required")
	}
	return &CommunicationReminder{
		BaseEntity: shared.NewBaseEntity(now),
		CustomerID: customerID,
		Type:       ReminderTypeFollowUp,
		Title:      title,
		DueDate:    dueDate,
		Priority:   PriorityMedium,
		Status:     ReminderStatusPending,
	}, nil
}

// Rename replaces the title, rejecting blank values
func (r *CommunicationReminder) Rename(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewValidationError("title", "cannot be empty")
	}
	if err := checkTitleLength("title", title); err != nil {
		return err
	}
	r.Title = title
	return nil
}

// SetStatus moves the reminder to status. Entering completed stamps the
// completion time; leaving completed clears it.
func (r *CommunicationReminder) SetStatus(status ReminderStatus, now time.Time) {
	if status == r.Status {
		return
	}
	switch {
	case status == ReminderStatusCompleted:
		completed := now
		r.CompletedAt = &completed
	case r.Status == ReminderStatusCompleted:
		r.CompletedAt = nil
	}
	r.Status = status
}

// IsOverdue reports whether the reminder is past due relative to now when
// listed in scope. Overdue only exists within a pending-scoped view.
func (r *CommunicationReminder) IsOverdue(now time.Time, scope ReminderStatus) bool {
	return scope == ReminderStatusPending && r.DueDate.Before(now)
}

// ReminderQuery scopes a store read. Zero values mean "any".
type ReminderQuery struct {
	Status     ReminderStatus
	CustomerID uuid.UUID
}

// ReminderRepository persists communication reminders.
// FindAll returns reminders in insertion order.
type ReminderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CommunicationReminder, error)
	FindAll(ctx context.Context, query ReminderQuery) ([]CommunicationReminder, error)
	Save(ctx context.Context, reminder *CommunicationReminder) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context) (map[ReminderStatus]int64, error)
	CountOverdue(ctx context.Context, now time.Time) (int64, error)
}

// MaxTitleLength bounds reminder titles and plan names, counted in characters
const MaxTitleLength = 200

func checkTitleLength(field, value string) error {
	if utf8.RuneCountInString(value) > MaxTitleLength {
		return shared.NewValidationError(field, fmt.Sprintf("cannot exceed %d characters", MaxTitleLength))
	}
	return nil
}

func passThroughLabel(raw string) string {
	if raw == "" {
		return "Unknown"
	}
	return raw
}

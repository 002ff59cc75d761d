package crm

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wealthcrm/backend/internal/domain/crm"
	"github.com/wealthcrm/backend/internal/domain/shared"
)

// Accepted date layouts, tried in order. Values without a zone are UTC.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate parses a user supplied date and normalizes it to UTC
func ParseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, shared.NewValidationError(field, "is required")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, shared.NewValidationError(field, "must be a date (YYYY-MM-DD)")
}

// IsDate reports whether raw is blank or parses as a date. Blank values are
// left to the required checks of each operation.
func IsDate(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return true
	}
	_, err := ParseDate("", raw)
	return err == nil
}

func parseID(field, raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, shared.NewValidationError(field, "is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, shared.NewValidationError(field, "must be a valid id")
	}
	return id, nil
}

// parsePriority accepts a known priority; empty means the default
func parsePriority(raw string, def crm.Priority) (crm.Priority, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return def, nil
	}
	p := crm.Priority(raw)
	if !p.IsKnown() {
		return "", shared.NewValidationError("priority", "must be one of high, medium, low")
	}
	return p, nil
}

func parseReminderStatus(raw string, def crm.ReminderStatus) (crm.ReminderStatus, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return def, nil
	}
	s := crm.ReminderStatus(raw)
	if !s.IsKnown() {
		return "", shared.NewValidationError("status", "must be one of pending, in_progress, completed, cancelled")
	}
	return s, nil
}

func parsePlanStatus(raw string, def crm.PlanStatus) (crm.PlanStatus, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return def, nil
	}
	s := crm.PlanStatus(raw)
	if !s.IsKnown() {
		return "", shared.NewValidationError("status", "must be one of active, paused, completed")
	}
	return s, nil
}

// scope turns a list filter value into a query value; "" and "all" mean any
func scope(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == FilterAll {
		return ""
	}
	return raw
}

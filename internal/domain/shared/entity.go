package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity provides identity and audit timestamps for all entities
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity creates a base entity with a generated ID stamped at now
func NewBaseEntity(now time.Time) BaseEntity {
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch records a modification at now
func (e *BaseEntity) Touch(now time.Time) {
	e.UpdatedAt = now
}

// Clock supplies the current time. Services take one so tests can pin "now".
type Clock func() time.Time

// SystemClock returns the wall clock time
func SystemClock() time.Time {
	return time.Now()
}

package crm

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wealthcrm/backend/internal/domain/shared"
)

// Customer is a wealth-management client. Reminders, plans and advice only
// reference customers; they never modify them.
type Customer struct {
	shared.BaseEntity
	Name           string
	TotalAssets    decimal.Decimal
	RiskLevel      string // free text, e.g. Low, Medium, High
	InvestmentGoal string
	Phone          string
	Email          string
	Notes          string
}

// NewCustomer creates a customer after validating name and assets
func NewCustomer(name string, totalAssets decimal.Decimal, now time.Time) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("name", "is required")
	}
	if len(name) > 200 {
		return nil, shared.NewValidationError("name", "cannot exceed 200 characters")
	}
	if totalAssets.IsNegative() {
		return nil, shared.NewValidationError("total_assets", "cannot be negative")
	}
	return &Customer{
		BaseEntity:  shared.NewBaseEntity(now),
		Name:        name,
		TotalAssets: totalAssets,
	}, nil
}

// CustomerRepository persists customers
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	// FindAll returns customers ordered by name. An empty search matches all.
	FindAll(ctx context.Context, search string) ([]Customer, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	Save(ctx context.Context, customer *Customer) error
}

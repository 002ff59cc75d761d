package crm

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wealthcrm/backend/internal/domain/crm"
	"github.com/wealthcrm/backend/internal/domain/shared"
)

// CustomerService handles customer use cases
type CustomerService struct {
	customers crm.CustomerRepository
	clock     shared.Clock
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customers crm.CustomerRepository, opts ...Option) *CustomerService {
	o := buildOptions(opts)
	return &CustomerService{customers: customers, clock: o.clock}
}

// Create stores a new customer
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	assets := decimal.Zero
	if req.TotalAssets != nil {
		assets = *req.TotalAssets
	}
	customer, err := crm.NewCustomer(req.Name, assets, s.clock().UTC())
	if err != nil {
		return nil, err
	}
	customer.RiskLevel = strings.TrimSpace(req.RiskLevel)
	customer.InvestmentGoal = strings.TrimSpace(req.InvestmentGoal)
	customer.Phone = strings.TrimSpace(req.Phone)
	customer.Email = strings.TrimSpace(req.Email)
	customer.Notes = strings.TrimSpace(req.Notes)

	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, err
	}
	resp := toCustomerResponse(customer)
	return &resp, nil
}

// GetByID returns one customer
func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toCustomerResponse(customer)
	return &resp, nil
}

// List returns customers whose name matches search, ordered by name
func (s *CustomerService) List(ctx context.Context, search string) ([]CustomerResponse, error) {
	customers, err := s.customers.FindAll(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}
	out := make([]CustomerResponse, len(customers))
	for i := range customers {
		out[i] = toCustomerResponse(&customers[i])
	}
	return out, nil
}

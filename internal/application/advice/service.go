package advice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wealthcrm/backend/internal/domain/advice"
	"github.com/wealthcrm/backend/internal/domain/crm"
	"github.com/wealthcrm/backend/internal/domain/shared"
)

// AdviceService generates advice for stored customers and ad hoc profiles
type AdviceService struct {
	customers crm.CustomerRepository
	provider  advice.Provider
	observer  Observer
}

// NewAdviceService creates a new AdviceService. A nil provider means
// deterministic advice only.
func NewAdviceService(customers crm.CustomerRepository, provider advice.Provider, observer Observer) *AdviceService {
	if provider == nil {
		provider = advice.NewDeterministicAdvisor()
	}
	if observer == nil {
		observer = NoopObserver{}
	}
	return &AdviceService{customers: customers, provider: provider, observer: observer}
}

// ForCustomer generates advice from a stored customer's profile
func (s *AdviceService) ForCustomer(ctx context.Context, customerID uuid.UUID) (*AdviceResponse, error) {
	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	assets := customer.TotalAssets
	resp, err := s.generate(ctx, advice.Profile{
		TotalAssets: &assets,
		RiskLevel:   customer.RiskLevel,
		Goal:        customer.InvestmentGoal,
	})
	if err != nil {
		return nil, err
	}
	resp.CustomerID = &customer.ID
	resp.CustomerName = customer.Name
	return resp, nil
}

// ForProfile generates advice for a profile that is not stored
func (s *AdviceService) ForProfile(ctx context.Context, req ProfileRequest) (*AdviceResponse, error) {
	if req.TotalAssets != nil && req.TotalAssets.IsNegative() {
		return nil, shared.NewValidationError("total_assets", "cannot be negative")
	}
	return s.generate(ctx, advice.Profile{
		TotalAssets: req.TotalAssets,
		RiskLevel:   req.RiskLevel,
		Goal:        req.InvestmentGoal,
	})
}

func (s *AdviceService) generate(ctx context.Context, profile advice.Profile) (*AdviceResponse, error) {
	start := time.Now()
	out, err := s.provider.Generate(ctx, profile)
	if err != nil {
		return nil, err
	}
	s.observer.RecordAdvice(ctx, string(out.Source), string(out.Tier), time.Since(start))
	return toAdviceResponse(out), nil
}

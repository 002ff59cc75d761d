package advice

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wealthcrm/backend/internal/domain/advice"
)

// ProfileRequest is an ad hoc profile to generate advice for
type ProfileRequest struct {
	TotalAssets    *decimal.Decimal `json:"total_assets"`
	RiskLevel      string           `json:"risk_level" binding:"max=50"`
	InvestmentGoal string           `json:"investment_goal" binding:"max=500"`
}

// AdviceResponse is the advice returned to API clients
type AdviceResponse struct {
	CustomerID   *uuid.UUID        `json:"customer_id,omitempty"`
	CustomerName string            `json:"customer_name,omitempty"`
	Tier         advice.Tier       `json:"tier"`
	Allocation   advice.Allocation `json:"allocation"`
	RiskLevel    string            `json:"risk_level"`
	Goal         string            `json:"investment_goal,omitempty"`
	Narrative    string            `json:"advice"`
	Source       advice.Source     `json:"source"`
}

func toAdviceResponse(a *advice.Advice) *AdviceResponse {
	return &AdviceResponse{
		Tier:       a.Tier,
		Allocation: a.Allocation,
		RiskLevel:  a.RiskLevel,
		Goal:       a.Goal,
		Narrative:  a.Narrative,
		Source:     a.Source,
	}
}

// Package advice turns a customer's financial profile into an
// asset-allocation recommendation.
package advice

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultRiskLevel is shown when the profile carries none
const DefaultRiskLevel = "Medium"

// Tier boundaries. A profile exactly on a boundary falls into the upper tier.
var (
	steadyGrowthFloor = decimal.NewFromInt(100_000)
	balancedFloor     = decimal.NewFromInt(500_000)
)

// Tier is one of the asset-based strategy buckets
type Tier string

const (
	TierConservativeStart Tier = "conservative-start"
	TierSteadyGrowth      Tier = "steady-growth"
	TierBalanced          Tier = "balanced"
)

// Allocation is a percentage split across asset classes
type Allocation struct {
	Equity int `json:"equity"`
	Bond   int `json:"bond"`
	Cash   int `json:"cash"`
}

// String renders the allocation as equity/bond/cash
func (a Allocation) String() string {
	return fmt.Sprintf("%d/%d/%d", a.Equity, a.Bond, a.Cash)
}

var tierAllocations = map[Tier]Allocation{
	TierConservativeStart: {Equity: 20, Bond: 50, Cash: 30},
	TierSteadyGrowth:      {Equity: 40, Bond: 40, Cash: 20},
	TierBalanced:          {Equity: 50, Bond: 35, Cash: 15},
}

// Source names the provider that produced the narrative
type Source string

const (
	SourceDeterministic Source = "deterministic"
	SourceRemote        Source = "remote"
)

// Profile is the financial input to advice generation.
// A nil TotalAssets is treated as zero.
type Profile struct {
	TotalAssets *decimal.Decimal
	RiskLevel   string
	Goal        string
}

// Assets returns total assets with the zero default applied
func (p Profile) Assets() decimal.Decimal {
	if p.TotalAssets == nil {
		return decimal.Zero
	}
	return *p.TotalAssets
}

// Risk returns the risk level with the Medium default applied
func (p Profile) Risk() string {
	if r := strings.TrimSpace(p.RiskLevel); r != "" {
		return r
	}
	return DefaultRiskLevel
}

// Advice is a generated recommendation
type Advice struct {
	Tier       Tier
	Allocation Allocation
	RiskLevel  string
	Goal       string
	Narrative  string
	Source     Source
}

// Provider produces advice for a profile. Implementations must be safe for
// concurrent use.
type Provider interface {
	Generate(ctx context.Context, profile Profile) (*Advice, error)
}

// TierFor selects the strategy tier from total assets alone.
// Risk level is display-only and does not influence the tier.
func TierFor(assets decimal.Decimal) Tier {
	switch {
	case assets.GreaterThanOrEqual(balancedFloor):
		return TierBalanced
	case assets.GreaterThanOrEqual(steadyGrowthFloor):
		return TierSteadyGrowth
	default:
		return TierConservativeStart
	}
}

// AllocationFor returns the fixed allocation of a tier
func AllocationFor(tier Tier) Allocation {
	return tierAllocations[tier]
}

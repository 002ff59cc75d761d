package advice

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assets(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		assets     string
		tier       Tier
		allocation string
	}{
		{"0", TierConservativeStart, "20/50/30"},
		{"99999.99", TierConservativeStart, "20/50/30"},
		{"100000", TierSteadyGrowth, "40/40/20"},
		{"499999.9999", TierSteadyGrowth, "40/40/20"},
		{"500000", TierBalanced, "50/35/15"},
		{"25000000", TierBalanced, "50/35/15"},
	}
	for _, tt := range tests {
		t.Run(tt.assets, func(t *testing.T) {
			tier := TierFor(decimal.RequireFromString(tt.assets))
			assert.Equal(t, tt.tier, tier)
			assert.Equal(t, tt.allocation, AllocationFor(tier).String())
		})
	}
}

func TestAllocationsSumToHundred(t *testing.T) {
	for tier, a := range tierAllocations {
		assert.Equal(t, 100, a.Equity+a.Bond+a.Cash, tier)
	}
}

func TestDeterministicAdvisor_Generate(t *testing.T) {
	engine := NewDeterministicAdvisor()

	got, err := engine.Generate(context.Background(), Profile{
		TotalAssets: assets("250000"),
		RiskLevel:   "High",
		Goal:        "Retirement",
	})
	require.NoError(t, err)

	assert.Equal(t, TierSteadyGrowth, got.Tier)
	assert.Equal(t, Allocation{Equity: 40, Bond: 40, Cash: 20}, got.Allocation)
	assert.Equal(t, SourceDeterministic, got.Source)
	assert.Contains(t, got.Narrative, "steady-growth")
	assert.Contains(t, got.Narrative, "40/40/20")
	assert.Contains(t, got.Narrative, "Risk level: High")
	assert.Contains(t, got.Narrative, "Retirement")
	assert.Contains(t, got.Narrative, "Risk disclaimer")
	assert.Equal(t, 4, strings.Count(got.Narrative, "\n- "))
}

func TestDeterministicAdvisor_Defaults(t *testing.T) {
	got := Build(Profile{})

	assert.Equal(t, TierConservativeStart, got.Tier)
	assert.Equal(t, DefaultRiskLevel, got.RiskLevel)
	assert.Contains(t, got.Narrative, "Total assets: 0.00")
	assert.NotContains(t, got.Narrative, "Investment goal")
}

func TestDeterministicAdvisor_RiskLevelDoesNotChangeTier(t *testing.T) {
	low := Build(Profile{TotalAssets: assets("150000"), RiskLevel: "Low"})
	high := Build(Profile{TotalAssets: assets("150000"), RiskLevel: "High"})

	assert.Equal(t, low.Tier, high.Tier)
	assert.Equal(t, low.Allocation, high.Allocation)
	assert.NotEqual(t, low.Narrative, high.Narrative)
}

func TestDeterministicAdvisor_IsPure(t *testing.T) {
	p := Profile{TotalAssets: assets("750000"), RiskLevel: "Medium", Goal: "Education fund"}

	first := Build(p)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Build(p))
	}
}

package advice

import (
	"context"
	"strings"
)

var recommendations = [4]string{
	"Keep an emergency reserve of three to six months of expenses in cash.",
	"Rebalance the portfolio back to the target allocation at least once a year.",
	"Diversify equity holdings across regions and sectors, preferring low-cost index funds.",
	"Review the plan with your advisor whenever your income, goals or family situation change.",
}

const disclaimer = "Risk disclaimer: this recommendation is generated from a simplified rule set " +
	"and is not a guarantee of returns. Investments can lose value. Consult a licensed advisor " +
	"before making investment decisions."

// DeterministicAdvisor is the rule-based advice engine. It is pure: identical
// profiles always produce identical advice, and it never fails.
type DeterministicAdvisor struct{}

// NewDeterministicAdvisor creates the rule-based advice engine
func NewDeterministicAdvisor() *DeterministicAdvisor {
	return &DeterministicAdvisor{}
}

// Generate implements Provider
func (DeterministicAdvisor) Generate(_ context.Context, profile Profile) (*Advice, error) {
	return Build(profile), nil
}

// Build computes the deterministic advice for a profile
func Build(profile Profile) *Advice {
	assets := profile.Assets()
	tier := TierFor(assets)
	allocation := AllocationFor(tier)

	a := &Advice{
		Tier:       tier,
		Allocation: allocation,
		RiskLevel:  profile.Risk(),
		Goal:       strings.TrimSpace(profile.Goal),
		Source:     SourceDeterministic,
	}
	a.Narrative = narrative(a, assets.StringFixed(2))
	return a
}

func narrative(a *Advice, assets string) string {
	var b strings.Builder
	b.WriteString("Investment advice\n\n")
	b.WriteString("Total assets: " + assets + "\n")
	b.WriteString("Risk level: " + a.RiskLevel + "\n")
	if a.Goal != "" {
		b.WriteString("Investment goal: " + a.Goal + "\n")
	}
	b.WriteString("\nStrategy: " + string(a.Tier) + "\n")
	b.WriteString("Allocation (equity/bond/cash): " + a.Allocation.String() + "\n\n")
	b.WriteString("Recommendations:\n")
	for _, r := range recommendations {
		b.WriteString("- " + r + "\n")
	}
	b.WriteString("\n" + disclaimer)
	return b.String()
}

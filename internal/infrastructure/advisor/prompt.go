package advisor

import (
	"fmt"
	"strings"

	"github.com/wealthcrm/backend/internal/domain/advice"
)

const systemPrompt = "You are a wealth management assistant writing for a relationship manager. " +
	"Write a short, plain-text investment recommendation for the client described. " +
	"Use the strategy and allocation you are given exactly; do not invent other percentages. " +
	"Finish with a one-sentence risk disclaimer."

func userPrompt(profile advice.Profile, base *advice.Advice) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total assets: %s\n", profile.Assets().StringFixed(2))
	fmt.Fprintf(&b, "Risk level: %s\n", base.RiskLevel)
	if base.Goal != "" {
		fmt.Fprintf(&b, "Investment goal: %s\n", base.Goal)
	}
	fmt.Fprintf(&b, "Strategy: %s\n", base.Tier)
	fmt.Fprintf(&b, "Allocation (equity/bond/cash): %s\n", base.Allocation)
	return b.String()
}

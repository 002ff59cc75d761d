package crm

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlan(t *testing.T, name, customer string, pt PlanType, status PlanStatus) *CommunicationPlan {
	t.Helper()
	p, err := NewPlan(uuid.New(), name, date(2025, 4, 1), now)
	require.NoError(t, err)
	p.CustomerName = customer
	p.Type = pt
	p.Status = status
	return p
}

func TestPlanFilter_Matches(t *testing.T) {
	quarterly := newPlan(t, "Quarterly Investment Review", "Alice Chen", PlanTypeInvestmentReview, PlanStatusActive)
	paused := newPlan(t, "Retirement goals", "Bob Li", PlanTypeGoalSetting, PlanStatusPaused)
	custom := newPlan(t, "Tax season", "Ünal Öztürk", PlanType("tax_prep"), PlanStatusActive)

	tests := []struct {
		name   string
		filter PlanFilter
		plan   *CommunicationPlan
		want   bool
	}{
		{"empty filter matches", PlanFilter{}, paused, true},
		{"case-insensitive plan name", PlanFilter{Search: "quarterly"}, quarterly, true},
		{"upper-case needle", PlanFilter{Search: "REVIEW"}, quarterly, true},
		{"customer name", PlanFilter{Search: "bob"}, paused, true},
		{"raw plan type", PlanFilter{Search: "goal_setting"}, paused, true},
		{"plan type label", PlanFilter{Search: "goal setting"}, paused, true},
		{"unknown plan type raw", PlanFilter{Search: "TAX_PREP"}, custom, true},
		{"unicode folding", PlanFilter{Search: "öztürk"}, custom, true},
		{"no match", PlanFilter{Search: "insurance"}, quarterly, false},
		{"status match", PlanFilter{Status: PlanStatusPaused}, paused, true},
		{"status mismatch", PlanFilter{Status: PlanStatusPaused}, quarterly, false},
		{"search and status both required", PlanFilter{Search: "quarterly", Status: PlanStatusPaused}, quarterly, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(tt.plan))
		})
	}
}

func TestNewPlan(t *testing.T) {
	p, err := NewPlan(uuid.New(), " Annual review ", date(2025, 4, 1), now)
	require.NoError(t, err)
	assert.Equal(t, "Annual review", p.Name)
	assert.Equal(t, PlanStatusActive, p.Status)
	assert.Equal(t, FrequencyMonthly, p.Frequency)
	assert.Equal(t, PlanTypeOther, p.Type)
	assert.NotEqual(t, uuid.Nil, p.ID)

	_, err = NewPlan(uuid.New(), "", date(2025, 4, 1), now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plan_name")

	_, err = NewPlan(uuid.New(), "Annual review", time.Time{}, now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "next_contact_date")
}

func TestPlanNameLength(t *testing.T) {
	name := strings.Repeat("季度投资回顾", 30) + strings.Repeat("x", 20) // 200 characters
	p, err := NewPlan(uuid.New(), name, date(2025, 4, 1), now)
	require.NoError(t, err)

	_, err = NewPlan(uuid.New(), name+"x", date(2025, 4, 1), now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plan_name")

	require.Error(t, p.Rename(strings.Repeat("a", 201)))
	assert.Equal(t, name, p.Name)
	require.NoError(t, p.Rename(strings.Repeat("名", 200)))
}

package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(insights []Insight) []string {
	out := make([]string, 0, len(insights))
	for _, i := range insights {
		out = append(out, i.Title)
	}
	return out
}

func TestExcellentDeliveryOnly(t *testing.T) {
	s := Summary{TotalContracts: 10, DeliveredContracts: 8, ActiveContracts: 2}
	insights := GenerateInsights(s, nil)

	require.Equal(t, []string{"Excellent Delivery Performance"}, titles(insights))
	assert.Equal(t, InsightSuccess, insights[0].Type)
	assert.Equal(t, "80% completion rate demonstrates strong operational efficiency and reliable supply chain execution.", insights[0].Description)
}

func TestHighCancellationFires(t *testing.T) {
	s := Summary{TotalContracts: 10, CancelledContracts: 2, DeliveredContracts: 5}
	insights := GenerateInsights(s, nil)

	require.Equal(t, []string{"High Cancellation Rate"}, titles(insights))
	assert.Equal(t, InsightWarning, insights[0].Type)
	assert.Equal(t, "20% of contracts are being cancelled, representing potential revenue loss and inefficiency.", insights[0].Description)
}

func TestLowCompletionAndOrdering(t *testing.T) {
	s := Summary{
		TotalContracts:       10,
		DeliveredContracts:   1,
		ActiveContracts:      6,
		CancelledContracts:   3,
		AvgWeightPerContract: 1500.4,
		TotalItemsShipped:    12345,
	}
	issues := &IssueMetrics{TotalIssues: 5, ResolvedIssues: 4, CriticalIssues: 2, ResolutionRate: 80}

	insights := GenerateInsights(s, issues)
	assert.Equal(t, []string{
		"Low Completion Rate Alert",
		"High Cancellation Rate",
		"High Pipeline Volume",
		"Heavy Shipment Profile",
		"Critical Issues Detected",
		"Strong Issue Resolution",
		"High Volume Operations",
	}, titles(insights))

	assert.Equal(t, "Only 10% of contracts have been delivered. This indicates significant operational bottlenecks.", insights[0].Description)
	assert.Equal(t, "60% of contracts are currently active, indicating strong business pipeline and growth.", insights[2].Description)
	assert.Equal(t, "Average shipment weight of 1500kg per contract indicates bulk operations.", insights[3].Description)
	assert.Equal(t, "2 critical issues require immediate attention to prevent delivery delays.", insights[4].Description)
	assert.Equal(t, "80% resolution rate shows effective quality management and problem-solving capabilities.", insights[5].Description)
	assert.Equal(t, "12,345 items shipped demonstrates scale and operational maturity.", insights[6].Description)
}

func TestMiddlingCompletionFiresNothing(t *testing.T) {
	s := Summary{TotalContracts: 10, DeliveredContracts: 5, ActiveContracts: 5}
	assert.Empty(t, GenerateInsights(s, &IssueMetrics{}))
}

func TestEmptySummaryIsTotal(t *testing.T) {
	insights := GenerateInsights(Summary{}, nil)
	// completion rate of an empty set is 0
	assert.Equal(t, []string{"Low Completion Rate Alert"}, titles(insights))
	assert.Equal(t, "Only 0% of contracts have been delivered. This indicates significant operational bottlenecks.", insights[0].Description)
}

func TestRulesAreIndependent(t *testing.T) {
	s := Summary{TotalContracts: 4, CancelledContracts: 1}
	for i, rule := range Rules {
		a, okA := rule(s, nil)
		b, okB := rule(s, nil)
		assert.Equal(t, okA, okB, "rule %d", i)
		assert.Equal(t, a, b, "rule %d", i)
	}
}

func TestEfficiencyInsight(t *testing.T) {
	assert.Equal(t, "High packing efficiency: 12.50 items per kg suggests lightweight, well-optimized packaging.", EfficiencyInsight(250, 20))
	assert.Equal(t, "Balanced packing ratio: 6.00 items per kg indicates standard packaging efficiency.", EfficiencyInsight(60, 10))
	assert.Equal(t, "Heavy items detected: 0.50 items per kg may indicate opportunities for packaging optimization.", EfficiencyInsight(5, 10))
	assert.Equal(t, "Insufficient data for efficiency analysis.", EfficiencyInsight(100, 0))
	assert.Equal(t, "Insufficient data for efficiency analysis.", EfficiencyInsight(0, 10))
}

func TestBoxOptimizationInsight(t *testing.T) {
	assert.Equal(t, "Large box capacity allows for bulk shipping, reducing per-unit shipping costs.", BoxOptimizationInsight(120))
	assert.Equal(t, "Moderate box capacity provides balance between protection and efficiency.", BoxOptimizationInsight(100))
	assert.Equal(t, "Small box packing may increase handling costs but ensures better item protection.", BoxOptimizationInsight(50))
	assert.Equal(t, "No packing data available.", BoxOptimizationInsight(0))
}

func TestComputeEfficiency(t *testing.T) {
	e := ComputeEfficiency(Summary{TotalItemsShipped: 100, TotalWeightShipped: decimal.NewFromInt(30), AvgItemsPerBox: 60})
	assert.Equal(t, 3.33, e.ItemsPerKg)
	assert.Contains(t, e.PackingInsight, "3.33 items per kg")
	assert.Contains(t, e.BoxOptimization, "Moderate")
}

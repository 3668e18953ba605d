package analytics

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// InsightType drives the colour of an insight card.
type InsightType string

const (
	InsightSuccess InsightType = "success"
	InsightWarning InsightType = "warning"
	InsightDanger  InsightType = "danger"
	InsightInfo    InsightType = "info"
)

// Insight is one recommendation card.
type Insight struct {
	Type           InsightType `json:"type"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Recommendation string      `json:"recommendation"`
}

// Rule yields at most one card. Issue-based rules stay silent when issues is nil.
type Rule func(s Summary, issues *IssueMetrics) (Insight, bool)

// Rules are evaluated in order; display order is evaluation order.
var Rules = []Rule{
	completionRule,
	cancellationRule,
	pipelineRule,
	heavyShipmentRule,
	criticalIssuesRule,
	resolutionRule,
	volumeRule,
}

// GenerateInsights evaluates Rules in order and returns the insights that fire.
func GenerateInsights(s Summary, issues *IssueMetrics) []Insight {
	insights := []Insight{}
	for _, rule := range Rules {
		if card, ok := rule(s, issues); ok {
			insights = append(insights, card)
		}
	}
	return insights
}

func rate(n int, s Summary) float64 {
	return ratio(float64(n), float64(s.TotalContracts)) * 100
}

// whole renders a number the way the dashboard shows percentages: rounded,
// halves away from zero.
func whole(v float64) string {
	return strconv.Itoa(int(math.Round(v)))
}

func completionRule(s Summary, _ *IssueMetrics) (Insight, bool) {
	completion := rate(s.DeliveredContracts, s)
	switch {
	case completion >= 70:
		return Insight{
			Type:           InsightSuccess,
			Title:          "Excellent Delivery Performance",
			Description:    whole(completion) + "% completion rate demonstrates strong operational efficiency and reliable supply chain execution.",
			Recommendation: "Maintain current processes and consider documenting best practices for scaling.",
		}, true
	case completion < 40:
		return Insight{
			Type:           InsightDanger,
			Title:          "Low Completion Rate Alert",
			Description:    "Only " + whole(completion) + "% of contracts have been delivered. This indicates significant operational bottlenecks.",
			Recommendation: "Conduct root cause analysis on delayed contracts. Review supplier capacity and streamline approval processes.",
		}, true
	}
	return Insight{}, false
}

func cancellationRule(s Summary, _ *IssueMetrics) (Insight, bool) {
	cancellation := rate(s.CancelledContracts, s)
	if cancellation <= 15 {
		return Insight{}, false
	}
	return Insight{
		Type:           InsightWarning,
		Title:          "High Cancellation Rate",
		Description:    whole(cancellation) + "% of contracts are being cancelled, representing potential revenue loss and inefficiency.",
		Recommendation: "Investigate cancellation reasons. Consider implementing stricter contract validation and supplier vetting.",
	}, true
}

func pipelineRule(s Summary, _ *IssueMetrics) (Insight, bool) {
	active := rate(s.ActiveContracts, s)
	if active <= 50 {
		return Insight{}, false
	}
	return Insight{
		Type:           InsightInfo,
		Title:          "High Pipeline Volume",
		Description:    whole(active) + "% of contracts are currently active, indicating strong business pipeline and growth.",
		Recommendation: "Ensure adequate resources are allocated to handle the volume. Monitor progress metrics closely.",
	}, true
}

func heavyShipmentRule(s Summary, _ *IssueMetrics) (Insight, bool) {
	if s.AvgWeightPerContract <= 1000 {
		return Insight{}, false
	}
	return Insight{
		Type:           InsightInfo,
		Title:          "Heavy Shipment Profile",
		Description:    "Average shipment weight of " + whole(s.AvgWeightPerContract) + "kg per contract indicates bulk operations.",
		Recommendation: "Optimize logistics partnerships for heavy freight. Consider negotiating volume-based shipping rates.",
	}, true
}

func criticalIssuesRule(_ Summary, issues *IssueMetrics) (Insight, bool) {
	if issues == nil || issues.CriticalIssues <= 0 {
		return Insight{}, false
	}
	return Insight{
		Type:           InsightDanger,
		Title:          "Critical Issues Detected",
		Description:    fmt.Sprintf("%d critical issues require immediate attention to prevent delivery delays.", issues.CriticalIssues),
		Recommendation: "Prioritize critical issue resolution. Assign dedicated resources and establish escalation protocols.",
	}, true
}

func resolutionRule(_ Summary, issues *IssueMetrics) (Insight, bool) {
	if issues == nil || issues.ResolutionRate < 80 {
		return Insight{}, false
	}
	return Insight{
		Type:           InsightSuccess,
		Title:          "Strong Issue Resolution",
		Description:    fmt.Sprintf("%d%% resolution rate shows effective quality management and problem-solving capabilities.", issues.ResolutionRate),
		Recommendation: "Continue current issue management practices. Consider sharing learnings with the team.",
	}, true
}

var numbers = message.NewPrinter(language.English)

func volumeRule(s Summary, _ *IssueMetrics) (Insight, bool) {
	if s.TotalItemsShipped <= 10000 {
		return Insight{}, false
	}
	return Insight{
		Type:           InsightSuccess,
		Title:          "High Volume Operations",
		Description:    numbers.Sprintf("%d items shipped demonstrates scale and operational maturity.", s.TotalItemsShipped),
		Recommendation: "Leverage volume for better supplier negotiations. Consider automation investments for continued growth.",
	}, true
}

// Efficiency holds the two packing texts of the efficiency chart.
type Efficiency struct {
	ItemsPerKg      float64 `json:"items_per_kg"`
	PackingInsight  string  `json:"packing_insight"`
	BoxOptimization string  `json:"box_optimization"`
}

// ComputeEfficiency derives the efficiency chart texts from a summary.
func ComputeEfficiency(s Summary) Efficiency {
	weight := s.TotalWeightShipped.InexactFloat64()
	return Efficiency{
		ItemsPerKg:      math.Round(ratio(float64(s.TotalItemsShipped), weight)*100) / 100,
		PackingInsight:  EfficiencyInsight(s.TotalItemsShipped, weight),
		BoxOptimization: BoxOptimizationInsight(s.AvgItemsPerBox),
	}
}

// EfficiencyInsight grades items per kilogram, shown with two decimals.
func EfficiencyInsight(totalItems int, totalWeight float64) string {
	perKg := strconv.FormatFloat(ratio(float64(totalItems), totalWeight), 'f', 2, 64)
	value, _ := strconv.ParseFloat(perKg, 64)
	switch {
	case value > 10:
		return "High packing efficiency: " + perKg + " items per kg suggests lightweight, well-optimized packaging."
	case value > 5:
		return "Balanced packing ratio: " + perKg + " items per kg indicates standard packaging efficiency."
	case value > 0:
		return "Heavy items detected: " + perKg + " items per kg may indicate opportunities for packaging optimization."
	default:
		return "Insufficient data for efficiency analysis."
	}
}

// BoxOptimizationInsight grades the average box capacity.
func BoxOptimizationInsight(avgItemsPerBox float64) string {
	switch {
	case avgItemsPerBox > 100:
		return "Large box capacity allows for bulk shipping, reducing per-unit shipping costs."
	case avgItemsPerBox > 50:
		return "Moderate box capacity provides balance between protection and efficiency."
	case avgItemsPerBox > 0:
		return "Small box packing may increase handling costs but ensures better item protection."
	default:
		return "No packing data available."
	}
}

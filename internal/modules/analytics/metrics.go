// Package analytics turns contract, issue and audit rows into the summary
// figures, trend series and insight cards shown on the dashboard. Everything
// except Service is pure and total: a zero denominator yields 0.
package analytics

import (
	"math"

	"github.com/georgemunganga/supplier-pro/internal/modules/contract"
	"github.com/georgemunganga/supplier-pro/internal/modules/issue"
	"github.com/shopspring/decimal"
)

// Summary aggregates a contract set.
type Summary struct {
	TotalContracts        int             `json:"total_contracts"`
	TotalItemsShipped     int             `json:"total_items_shipped"`
	TotalWeightShipped    decimal.Decimal `json:"total_weight_shipped"`
	AvgWeightPerContract  float64         `json:"avg_weight_per_contract"`
	AvgItemsPerBox        float64         `json:"avg_items_per_box"`
	AvgProgressPercentage float64         `json:"avg_progress_percentage"`
	DeliveredContracts    int             `json:"delivered_contracts"`
	ActiveContracts       int             `json:"active_contracts"`
	CancelledContracts    int             `json:"cancelled_contracts"`
}

// StatusBucket is one slice of the status distribution.
type StatusBucket struct {
	Status      contract.Status `json:"status"`
	Count       int             `json:"count"`
	Percentage  int             `json:"percentage"`
	TotalItems  int             `json:"total_items"`
	AvgProgress float64         `json:"avg_progress"`
}

// IssueMetrics counts issues by state and severity.
type IssueMetrics struct {
	TotalIssues    int `json:"total_issues"`
	ResolvedIssues int `json:"resolved_issues"`
	OpenIssues     int `json:"open_issues"`
	CriticalIssues int `json:"critical_issues"`
	MajorIssues    int `json:"major_issues"`
	MinorIssues    int `json:"minor_issues"`
	ResolutionRate int `json:"resolution_rate"`
}

// DashboardMetrics are the headline cards of the dashboard page.
type DashboardMetrics struct {
	TotalContracts    int                     `json:"total_contracts"`
	ContractsByStatus map[contract.Status]int `json:"contracts_by_status"`
	TotalWeightKg     decimal.Decimal         `json:"total_weight_kg"`
	AvgItemsPerBox    float64                 `json:"avg_items_per_box"`
	ActiveContracts   int                     `json:"active_contracts"`
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func percent(num, den int) int {
	return int(math.Round(ratio(float64(num), float64(den)) * 100))
}

// Summarize totals a contract list. Averages over an empty list are zero.
func Summarize(contracts []*contract.Contract) Summary {
	s := Summary{TotalContracts: len(contracts), TotalWeightShipped: decimal.Zero}
	var itemsPerBox, progress int
	for _, c := range contracts {
		s.TotalItemsShipped += c.TotalQuantity
		s.TotalWeightShipped = s.TotalWeightShipped.Add(c.TotalWeightKg)
		itemsPerBox += c.ItemsPerBox
		progress += c.Progress
		switch {
		case c.Status == contract.StatusDelivered:
			s.DeliveredContracts++
		case c.Status == contract.StatusCancelled:
			s.CancelledContracts++
		case c.Status.Active():
			s.ActiveContracts++
		}
	}
	total := float64(s.TotalContracts)
	s.AvgWeightPerContract = ratio(s.TotalWeightShipped.InexactFloat64(), total)
	s.AvgItemsPerBox = ratio(float64(itemsPerBox), total)
	s.AvgProgressPercentage = ratio(float64(progress), total)
	return s
}

// StatusDistribution groups contracts by status in display order and omits
// empty buckets. Percentages are rounded per bucket and need not sum to 100.
func StatusDistribution(contracts []*contract.Contract) []StatusBucket {
	type acc struct{ count, items, progress int }
	byStatus := map[contract.Status]*acc{}
	for _, c := range contracts {
		a, ok := byStatus[c.Status]
		if !ok {
			a = &acc{}
			byStatus[c.Status] = a
		}
		a.count++
		a.items += c.TotalQuantity
		a.progress += c.Progress
	}

	buckets := []StatusBucket{}
	for _, status := range contract.Statuses {
		a, ok := byStatus[status]
		if !ok {
			continue
		}
		buckets = append(buckets, StatusBucket{
			Status:      status,
			Count:       a.count,
			Percentage:  percent(a.count, len(contracts)),
			TotalItems:  a.items,
			AvgProgress: ratio(float64(a.progress), float64(a.count)),
		})
	}
	return buckets
}

// ComputeIssueMetrics counts issues by resolution and severity. The
// resolution rate is a whole percentage.
func ComputeIssueMetrics(issues []*issue.Issue) IssueMetrics {
	m := IssueMetrics{TotalIssues: len(issues)}
	for _, i := range issues {
		if i.Resolved {
			m.ResolvedIssues++
		} else {
			m.OpenIssues++
		}
		switch i.Severity {
		case issue.SeverityCritical:
			m.CriticalIssues++
		case issue.SeverityMajor:
			m.MajorIssues++
		case issue.SeverityMinor:
			m.MinorIssues++
		}
	}
	m.ResolutionRate = percent(m.ResolvedIssues, m.TotalIssues)
	return m
}

// ComputeDashboardMetrics builds the dashboard tiles: counts per status, total
// weight, average items per box and contracts still in progress.
func ComputeDashboardMetrics(contracts []*contract.Contract) DashboardMetrics {
	m := DashboardMetrics{
		TotalContracts:    len(contracts),
		ContractsByStatus: map[contract.Status]int{},
		TotalWeightKg:     decimal.Zero,
	}
	var itemsPerBox int
	for _, c := range contracts {
		m.ContractsByStatus[c.Status]++
		m.TotalWeightKg = m.TotalWeightKg.Add(c.TotalWeightKg)
		itemsPerBox += c.ItemsPerBox
		if c.Status.Active() {
			m.ActiveContracts++
		}
	}
	m.AvgItemsPerBox = ratio(float64(itemsPerBox), float64(len(contracts)))
	return m
}

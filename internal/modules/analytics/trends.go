package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/georgemunganga/supplier-pro/internal/modules/audit"
	"github.com/georgemunganga/supplier-pro/internal/modules/contract"
	"github.com/shopspring/decimal"
)

const (
	DefaultMonths = 12
	DefaultWeeks  = 12
)

// MonthlyTrend is one calendar month of contract creation.
type MonthlyTrend struct {
	Month          string  `json:"month"`
	MonthLabel     string  `json:"month_label"`
	ContractCount  int     `json:"contract_count"`
	TotalItems     int     `json:"total_items"`
	TotalWeight    float64 `json:"total_weight"`
	DeliveredCount int     `json:"delivered_count"`
}

// WeekActivity is one week of audit log activity.
type WeekActivity struct {
	WeekStart         string `json:"week_start"`
	WeekLabel         string `json:"week_label"`
	ActivityCount     int    `json:"activity_count"`
	ActiveUsers       int    `json:"active_users"`
	AffectedContracts int    `json:"affected_contracts"`
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// weekStart truncates to Monday 00:00 UTC.
func weekStart(t time.Time) time.Time {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7
	return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, time.UTC)
}

// MonthlyTrends groups contracts created in the last months calendar months
// (the current one included) by month, newest first. Months without contracts
// are omitted.
func MonthlyTrends(contracts []*contract.Contract, now time.Time, months int) []MonthlyTrend {
	if months <= 0 {
		months = DefaultMonths
	}
	oldest := monthStart(now).AddDate(0, -(months - 1), 0)

	type acc struct {
		trend  MonthlyTrend
		weight decimal.Decimal
	}
	byMonth := map[time.Time]*acc{}
	for _, c := range contracts {
		m := monthStart(c.CreatedAt)
		if m.Before(oldest) {
			continue
		}
		a, ok := byMonth[m]
		if !ok {
			a = &acc{
				trend:  MonthlyTrend{Month: m.Format("2006-01"), MonthLabel: m.Format("Jan 2006")},
				weight: decimal.Zero,
			}
			byMonth[m] = a
		}
		a.trend.ContractCount++
		a.trend.TotalItems += c.TotalQuantity
		a.weight = a.weight.Add(c.TotalWeightKg)
		if c.Status == contract.StatusDelivered {
			a.trend.DeliveredCount++
		}
	}

	keys := make([]time.Time, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].After(keys[j]) })

	trends := make([]MonthlyTrend, 0, len(keys))
	for _, k := range keys {
		a := byMonth[k]
		a.trend.TotalWeight = a.weight.InexactFloat64()
		trends = append(trends, a.trend)
	}
	return trends
}

// Chronological returns a reversed copy of a newest-first series so charts
// read oldest to newest.
func Chronological[T any](series []T) []T {
	out := make([]T, len(series))
	for i, v := range series {
		out[len(series)-1-i] = v
	}
	return out
}

// change reports the rounded percentage move from prev to last. Growth from
// zero counts as 100%.
func change(prev, last int) int {
	if prev == 0 {
		return 100
	}
	diff := last - prev
	if diff < 0 {
		diff = -diff
	}
	return int(math.Round(float64(diff) / float64(prev) * 100))
}

// TrendInsight compares the last two months of a chronological series.
func TrendInsight(chronological []MonthlyTrend) string {
	n := len(chronological)
	if n < 2 {
		return "Insufficient data for trend analysis"
	}
	prev, last := chronological[n-2].ContractCount, chronological[n-1].ContractCount
	switch {
	case last > prev:
		return fmt.Sprintf("Contracts increased by %d%% this month", change(prev, last))
	case last < prev:
		return fmt.Sprintf("Contracts decreased by %d%% this month", change(prev, last))
	default:
		return "Contract volume remained stable this month"
	}
}

// WeeklyActivity groups audit entries from the last weeks weeks by week,
// newest first.
func WeeklyActivity(entries []*audit.Entry, now time.Time, weeks int) []WeekActivity {
	if weeks <= 0 {
		weeks = DefaultWeeks
	}
	oldest := weekStart(now).AddDate(0, 0, -7*(weeks-1))

	type acc struct {
		count     int
		users     map[string]struct{}
		contracts map[string]struct{}
	}
	byWeek := map[time.Time]*acc{}
	for _, e := range entries {
		w := weekStart(e.CreatedAt)
		if w.Before(oldest) {
			continue
		}
		a, ok := byWeek[w]
		if !ok {
			a = &acc{users: map[string]struct{}{}, contracts: map[string]struct{}{}}
			byWeek[w] = a
		}
		a.count++
		a.users[e.UserID.String()] = struct{}{}
		if e.Resource == audit.ResourceContract && e.ResourceID != "" {
			a.contracts[e.ResourceID] = struct{}{}
		}
	}

	keys := make([]time.Time, 0, len(byWeek))
	for k := range byWeek {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].After(keys[j]) })

	out := make([]WeekActivity, 0, len(keys))
	for _, k := range keys {
		a := byWeek[k]
		out = append(out, WeekActivity{
			WeekStart:         k.Format("2006-01-02"),
			WeekLabel:         k.Format("Jan 2"),
			ActivityCount:     a.count,
			ActiveUsers:       len(a.users),
			AffectedContracts: len(a.contracts),
		})
	}
	return out
}

// ActivityInsight compares the last two weeks of a chronological series.
func ActivityInsight(chronological []WeekActivity) string {
	n := len(chronological)
	if n < 2 {
		return "Building activity history..."
	}
	prev, last := chronological[n-2].ActivityCount, chronological[n-1].ActivityCount
	switch {
	case last > prev:
		return fmt.Sprintf("Activity increased by %d%% this week - high engagement", change(prev, last))
	case last < prev:
		return fmt.Sprintf("Activity decreased by %d%% this week - monitor engagement", change(prev, last))
	default:
		return "Activity levels consistent week-over-week"
	}
}

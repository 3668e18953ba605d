package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/georgemunganga/supplier-pro/internal/identity"
	"github.com/georgemunganga/supplier-pro/internal/modules/audit"
	"github.com/georgemunganga/supplier-pro/internal/modules/contract"
	"github.com/georgemunganga/supplier-pro/internal/modules/issue"
)

const recentContracts = 3

// ContractSource lists the contracts a session may read.
type ContractSource interface {
	List(ctx context.Context, session identity.Session, filter contract.Filter) ([]*contract.Contract, error)
}

// IssueSource lists the issues a session may read.
type IssueSource interface {
	Visible(ctx context.Context, session identity.Session) ([]*issue.Row, error)
}

// ActivitySource reads audit entries.
type ActivitySource interface {
	List(ctx context.Context, filter audit.Filter) ([]*audit.Entry, error)
}

// Report is everything the analytics page renders. Monthly and weekly series
// come newest first and again oldest first for charts.
type Report struct {
	Summary                     Summary        `json:"summary"`
	StatusDistribution          []StatusBucket `json:"status_distribution"`
	MonthlyTrends               []MonthlyTrend `json:"monthly_trends"`
	MonthlyTrendsChronological  []MonthlyTrend `json:"monthly_trends_chronological"`
	TrendInsight                string         `json:"trend_insight"`
	IssueMetrics                *IssueMetrics  `json:"issue_metrics"`
	WeeklyActivity              []WeekActivity `json:"weekly_activity"`
	WeeklyActivityChronological []WeekActivity `json:"weekly_activity_chronological"`
	ActivityInsight             string         `json:"activity_insight"`
	Insights                    []Insight      `json:"insights"`
	Efficiency                  Efficiency     `json:"efficiency"`
	GeneratedAt                 time.Time      `json:"generated_at"`
}

// Dashboard is the landing page: headline metrics and the latest contracts.
type Dashboard struct {
	Metrics         DashboardMetrics     `json:"metrics"`
	RecentContracts []*contract.Contract `json:"recent_contracts"`
}

type Service interface {
	// Report derives the analytics page from the rows the session may see.
	Report(ctx context.Context, session identity.Session) (*Report, error)

	// Dashboard returns headline metrics and the three newest contracts.
	Dashboard(ctx context.Context, session identity.Session) (*Dashboard, error)
}

type service struct {
	contracts ContractSource
	issues    IssueSource
	activity  ActivitySource
	now       func() time.Time
}

func NewService(contracts ContractSource, issues IssueSource, activity ActivitySource) Service {
	return &service{contracts: contracts, issues: issues, activity: activity, now: time.Now}
}

// Report loads the rows visible to the session and derives the analytics page.
// Suppliers see their own contracts, issues and actions; admins see everything.
func (s *service) Report(ctx context.Context, session identity.Session) (*Report, error) {
	now := s.now()

	contracts, err := s.contracts.List(ctx, session, contract.Filter{})
	if err != nil {
		return nil, fmt.Errorf("load contracts: %w", err)
	}
	rows, err := s.issues.Visible(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("load issues: %w", err)
	}

	filter := audit.Filter{Since: weekStart(now).AddDate(0, 0, -7*(DefaultWeeks-1))}
	if !session.IsAdmin() {
		uid := session.UserID
		filter.UserID = &uid
	}
	entries, err := s.activity.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("load activity: %w", err)
	}

	issues := make([]*issue.Issue, 0, len(rows))
	for _, row := range rows {
		issues = append(issues, &row.Issue)
	}
	issueMetrics := ComputeIssueMetrics(issues)

	summary := Summarize(contracts)
	trends := MonthlyTrends(contracts, now, DefaultMonths)
	weekly := WeeklyActivity(entries, now, DefaultWeeks)
	trendsChrono := Chronological(trends)
	weeklyChrono := Chronological(weekly)

	return &Report{
		Summary:                     summary,
		StatusDistribution:          StatusDistribution(contracts),
		MonthlyTrends:               trends,
		MonthlyTrendsChronological:  trendsChrono,
		TrendInsight:                TrendInsight(trendsChrono),
		IssueMetrics:                &issueMetrics,
		WeeklyActivity:              weekly,
		WeeklyActivityChronological: weeklyChrono,
		ActivityInsight:             ActivityInsight(weeklyChrono),
		Insights:                    GenerateInsights(summary, &issueMetrics),
		Efficiency:                  ComputeEfficiency(summary),
		GeneratedAt:                 now,
	}, nil
}

func (s *service) Dashboard(ctx context.Context, session identity.Session) (*Dashboard, error) {
	contracts, err := s.contracts.List(ctx, session, contract.Filter{})
	if err != nil {
		return nil, fmt.Errorf("load contracts: %w", err)
	}
	recent := contracts
	if len(recent) > recentContracts {
		recent = recent[:recentContracts]
	}
	return &Dashboard{
		Metrics:         ComputeDashboardMetrics(contracts),
		RecentContracts: recent,
	}, nil
}

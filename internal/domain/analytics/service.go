package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	recentActivityLimit = 10
	minYear             = 2000
	maxYear             = 2100
)

type Service struct {
	repo       Repository
	cache      Cache
	duesAmount decimal.Decimal
	cacheTTL   time.Duration
	now        func() time.Time
}

// NewService builds the dashboard and report service. A cacheTTL of zero
// disables caching.
func NewService(repo Repository, cache Cache, duesAmount decimal.Decimal, cacheTTL time.Duration) *Service {
	if cache == nil || cacheTTL <= 0 {
		cache = noopCache{}
	}
	return &Service{
		repo:       repo,
		cache:      cache,
		duesAmount: duesAmount,
		cacheTTL:   cacheTTL,
		now:        time.Now,
	}
}

// Invalidate drops every cached aggregate. Registered as a change hook on the
// services that write money rows.
func (s *Service) Invalidate() {
	s.cache.Flush()
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	now := s.now().UTC()
	key := "stats:" + now.Format("2006-01")
	if cached, ok := s.cache.GetStats(key); ok {
		return cached, nil
	}

	counts, err := s.repo.MemberCounts(ctx)
	if err != nil {
		return Stats{}, err
	}

	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := yearStart.AddDate(1, 0, 0)

	payments, err := s.repo.PaymentsBetween(ctx, yearStart, yearEnd)
	if err != nil {
		return Stats{}, err
	}
	donations, err := s.repo.DonationsBetween(ctx, yearStart, yearEnd)
	if err != nil {
		return Stats{}, err
	}
	expenses, err := s.repo.ExpensesBetween(ctx, yearStart, yearEnd)
	if err != nil {
		return Stats{}, err
	}
	recent, err := s.repo.RecentPayments(ctx, recentActivityLimit)
	if err != nil {
		return Stats{}, err
	}
	if recent == nil {
		recent = []Activity{}
	}

	target := s.monthlyTarget(counts.ActiveMembers)
	collections := Aggregate(yearStart, payments, target)

	income := collections.Total.Add(sumDonations(donations))
	spent := sumExpenses(expenses)

	stats := Stats{
		TotalMembers:          counts.TotalMembers,
		ActiveMembers:         counts.ActiveMembers,
		MembersOwing:          counts.MembersOwing,
		TotalOwing:            counts.TotalOwing,
		TotalIncome:           income,
		TotalExpenses:         spent,
		NetBalance:            income.Sub(spent),
		CurrentMonthCollected: collections.Months[int(now.Month())-1].Collected,
		MonthlyTarget:         target,
		MonthlyCollections:    collections.Months,
		PaymentMethods:        collections.Methods,
		RecentActivity:        recent,
	}

	s.cache.SetStats(key, stats, s.cacheTTL)
	return stats, nil
}

// Collections aggregates one calendar year of payments. A zero year means
// the current one.
func (s *Service) Collections(ctx context.Context, year int) (Collections, error) {
	if year == 0 {
		year = s.now().UTC().Year()
	}
	if year < minYear || year > maxYear {
		return Collections{}, ErrInvalidYear
	}

	key := fmt.Sprintf("collections:%d", year)
	if cached, ok := s.cache.GetCollections(key); ok {
		return cached, nil
	}

	counts, err := s.repo.MemberCounts(ctx)
	if err != nil {
		return Collections{}, err
	}

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	payments, err := s.repo.PaymentsBetween(ctx, start, start.AddDate(1, 0, 0))
	if err != nil {
		return Collections{}, err
	}

	collections := Aggregate(start, payments, s.monthlyTarget(counts.ActiveMembers))
	s.cache.SetCollections(key, collections, s.cacheTTL)
	return collections, nil
}

// FinancialReport covers an inclusive date range, defaulting to the current
// calendar year.
func (s *Service) FinancialReport(ctx context.Context, filter ReportFilter) (FinancialReport, error) {
	reportType := ReportType(strings.ToLower(strings.TrimSpace(string(filter.Type))))
	if reportType == "" {
		reportType = ReportSummary
	}
	if reportType != ReportSummary && reportType != ReportDetailed {
		return FinancialReport{}, ErrInvalidReportType
	}

	now := s.now().UTC()
	from := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	if filter.From != nil {
		from = dateOnly(*filter.From)
	}
	if filter.To != nil {
		to = dateOnly(*filter.To)
	}
	if to.Before(from) {
		return FinancialReport{}, ErrInvalidRange
	}
	end := to.AddDate(0, 0, 1)

	payments, err := s.repo.PaymentsBetween(ctx, from, end)
	if err != nil {
		return FinancialReport{}, err
	}
	donations, err := s.repo.DonationsBetween(ctx, from, end)
	if err != nil {
		return FinancialReport{}, err
	}
	expenses, err := s.repo.ExpensesBetween(ctx, from, end)
	if err != nil {
		return FinancialReport{}, err
	}

	paymentIncome := sumPayments(payments)
	donationIncome := sumDonations(donations)
	income := paymentIncome.Add(donationIncome)
	spent := sumExpenses(expenses)

	report := FinancialReport{
		Type: reportType,
		From: from,
		To:   to,
		Summary: ReportSummaryTotals{
			TotalIncome:    income,
			PaymentIncome:  paymentIncome,
			DonationIncome: donationIncome,
			TotalExpenses:  spent,
			NetBalance:     income.Sub(spent),
		},
		Breakdown: ReportBreakdown{
			Payments:  int64(len(payments)),
			Donations: int64(len(donations)),
			Expenses:  int64(len(expenses)),
		},
	}

	if reportType == ReportDetailed {
		report.Detail = buildDetail(from, to, payments, donations, expenses)
	}
	return report, nil
}

func buildDetail(from, to time.Time, payments []PaymentPoint, donations []DonationPoint, expenses []ExpensePoint) *ReportDetail {
	categories := make([]string, len(expenses))
	expenseAmounts := make([]decimal.Decimal, len(expenses))
	for i, expense := range expenses {
		categories[i] = expense.Category
		expenseAmounts[i] = expense.Amount
	}

	types := make([]string, len(donations))
	donationAmounts := make([]decimal.Decimal, len(donations))
	for i, donation := range donations {
		types[i] = donation.Type
		donationAmounts[i] = donation.Amount
	}

	return &ReportDetail{
		Monthly:            Flows(from, to, payments, donations, expenses),
		ExpensesByCategory: GroupTotals(categories, expenseAmounts),
		DonationsByType:    GroupTotals(types, donationAmounts),
		PaymentsByMethod:   MethodBreakdown(payments),
	}
}

func (s *Service) monthlyTarget(activeMembers int64) decimal.Decimal {
	return s.duesAmount.Mul(decimal.NewFromInt(activeMembers))
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

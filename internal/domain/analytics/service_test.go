package analytics

import (
	"context"
	"testing"
	"time"

	paymentdomain "dues-app-go/internal/domain/payment"
	"github.com/shopspring/decimal"
)

type fakeAnalyticsRepo struct {
	payments     []PaymentPoint
	donations    []DonationPoint
	expenses     []ExpensePoint
	counts       MemberCounts
	recent       []Activity
	paymentCalls int
}

func (f *fakeAnalyticsRepo) PaymentsBetween(ctx context.Context, from, to time.Time) ([]PaymentPoint, error) {
	f.paymentCalls++
	var result []PaymentPoint
	for _, item := range f.payments {
		if !item.Date.Before(from) && item.Date.Before(to) {
			result = append(result, item)
		}
	}
	return result, nil
}

func (f *fakeAnalyticsRepo) DonationsBetween(ctx context.Context, from, to time.Time) ([]DonationPoint, error) {
	var result []DonationPoint
	for _, item := range f.donations {
		if !item.Date.Before(from) && item.Date.Before(to) {
			result = append(result, item)
		}
	}
	return result, nil
}

func (f *fakeAnalyticsRepo) ExpensesBetween(ctx context.Context, from, to time.Time) ([]ExpensePoint, error) {
	var result []ExpensePoint
	for _, item := range f.expenses {
		if !item.Date.Before(from) && item.Date.Before(to) {
			result = append(result, item)
		}
	}
	return result, nil
}

func (f *fakeAnalyticsRepo) MemberCounts(ctx context.Context) (MemberCounts, error) {
	return f.counts, nil
}

func (f *fakeAnalyticsRepo) RecentPayments(ctx context.Context, limit int) ([]Activity, error) {
	if len(f.recent) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

type mapCache struct {
	stats       map[string]Stats
	collections map[string]Collections
	flushes     int
}

func newMapCache() *mapCache {
	return &mapCache{stats: map[string]Stats{}, collections: map[string]Collections{}}
}

func (c *mapCache) GetStats(key string) (Stats, bool) {
	value, ok := c.stats[key]
	return value, ok
}

func (c *mapCache) SetStats(key string, stats Stats, ttl time.Duration) {
	c.stats[key] = stats
}

func (c *mapCache) GetCollections(key string) (Collections, bool) {
	value, ok := c.collections[key]
	return value, ok
}

func (c *mapCache) SetCollections(key string, collections Collections, ttl time.Duration) {
	c.collections[key] = collections
}

func (c *mapCache) Flush() {
	c.flushes++
	c.stats = map[string]Stats{}
	c.collections = map[string]Collections{}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func money(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestAggregateBucketsSumToTotal(t *testing.T) {
	payments := []PaymentPoint{
		{MemberID: "a", Amount: money("10"), Method: paymentdomain.MethodCash, Date: day(2026, time.January, 3)},
		{MemberID: "a", Amount: money("20.50"), Method: paymentdomain.MethodMobileMoney, Date: day(2026, time.January, 20)},
		{MemberID: "b", Amount: money("15"), Method: paymentdomain.MethodCash, Date: day(2026, time.June, 1)},
		{MemberID: "c", Amount: money("30"), Method: paymentdomain.MethodBankTransfer, Date: day(2026, time.December, 31)},
		{MemberID: "d", Amount: money("99"), Method: paymentdomain.MethodCash, Date: day(2025, time.December, 31)},
		{MemberID: "d", Amount: money("99"), Method: paymentdomain.MethodCash, Date: day(2027, time.January, 1)},
	}

	result := Aggregate(day(2026, time.January, 1), payments, money("50"))

	if len(result.Months) != 12 {
		t.Fatalf("expected 12 buckets, got %d", len(result.Months))
	}
	sum := decimal.Zero
	for _, bucket := range result.Months {
		sum = sum.Add(bucket.Collected)
		if !bucket.Target.Equal(money("50")) {
			t.Fatalf("expected target 50, got %s", bucket.Target)
		}
	}
	if !sum.Equal(money("75.50")) || !result.Total.Equal(sum) {
		t.Fatalf("expected bucket sum 75.50 equal to total, got sum %s total %s", sum, result.Total)
	}
	if result.Months[0].Month != "Jan" || result.Months[11].Month != "Dec" {
		t.Fatalf("unexpected month labels %s..%s", result.Months[0].Month, result.Months[11].Month)
	}
	if result.Months[0].Members != 1 {
		t.Fatalf("expected one distinct payer in january, got %d", result.Months[0].Members)
	}
	if !result.Months[0].Collected.Equal(money("30.50")) {
		t.Fatalf("expected january 30.50, got %s", result.Months[0].Collected)
	}
}

func TestAggregateWindowStartsMidYear(t *testing.T) {
	payments := []PaymentPoint{
		{Amount: money("5"), Method: paymentdomain.MethodCash, Date: day(2026, time.July, 10)},
		{Amount: money("7"), Method: paymentdomain.MethodCash, Date: day(2027, time.June, 30)},
	}

	result := Aggregate(day(2026, time.July, 15), payments, decimal.Zero)

	if result.Months[0].Key != "2026-07" || result.Months[11].Key != "2027-06" {
		t.Fatalf("unexpected window %s..%s", result.Months[0].Key, result.Months[11].Key)
	}
	if !result.Total.Equal(money("12")) {
		t.Fatalf("expected total 12, got %s", result.Total)
	}
}

func TestMethodBreakdownPercentages(t *testing.T) {
	payments := []PaymentPoint{
		{Amount: money("30"), Method: paymentdomain.MethodCash},
		{Amount: money("10"), Method: paymentdomain.MethodCash},
		{Amount: money("60"), Method: paymentdomain.MethodMobileMoney},
	}

	shares := MethodBreakdown(payments)

	if len(shares) != 3 {
		t.Fatalf("expected every known method, got %d", len(shares))
	}
	if shares[0].Method != paymentdomain.MethodCash || shares[0].Percent != 40 || shares[0].Count != 2 {
		t.Fatalf("unexpected cash share %+v", shares[0])
	}
	if shares[1].Name != "Mobile Money" || shares[1].Percent != 60 {
		t.Fatalf("unexpected mobile money share %+v", shares[1])
	}
	if shares[2].Percent != 0 || !shares[2].Amount.IsZero() {
		t.Fatalf("expected empty bank transfer share, got %+v", shares[2])
	}
}

func TestMethodBreakdownEmpty(t *testing.T) {
	shares := MethodBreakdown(nil)
	for _, share := range shares {
		if share.Percent != 0 || share.Count != 0 {
			t.Fatalf("expected zero shares, got %+v", share)
		}
	}
}

func TestStatsCombinesIncomeAndCaches(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		counts: MemberCounts{TotalMembers: 5, ActiveMembers: 4, MembersOwing: 2, TotalOwing: money("40")},
		payments: []PaymentPoint{
			{MemberID: "a", Amount: money("20"), Method: paymentdomain.MethodCash, Date: day(2026, time.March, 2)},
			{MemberID: "b", Amount: money("10"), Method: paymentdomain.MethodCash, Date: day(2026, time.October, 1)},
		},
		donations: []DonationPoint{{Amount: money("100"), Type: "tithe", Date: day(2026, time.May, 5)}},
		expenses:  []ExpensePoint{{Amount: money("45"), Category: "snacks", Date: day(2026, time.April, 1)}},
	}
	cache := newMapCache()
	service := NewService(repo, cache, money("10"), time.Minute)
	service.now = func() time.Time { return day(2026, time.October, 19) }

	stats, err := service.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stats.TotalIncome.Equal(money("130")) {
		t.Fatalf("expected income 130, got %s", stats.TotalIncome)
	}
	if !stats.NetBalance.Equal(money("85")) {
		t.Fatalf("expected net 85, got %s", stats.NetBalance)
	}
	if !stats.MonthlyTarget.Equal(money("40")) {
		t.Fatalf("expected target 40, got %s", stats.MonthlyTarget)
	}
	if !stats.CurrentMonthCollected.Equal(money("10")) {
		t.Fatalf("expected current month 10, got %s", stats.CurrentMonthCollected)
	}
	if stats.RecentActivity == nil {
		t.Fatalf("expected empty recent activity, got nil")
	}

	if _, err := service.Stats(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.paymentCalls != 1 {
		t.Fatalf("expected cached stats, got %d repo calls", repo.paymentCalls)
	}

	service.Invalidate()
	if _, err := service.Stats(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.paymentCalls != 2 {
		t.Fatalf("expected reload after invalidate, got %d repo calls", repo.paymentCalls)
	}
}

func TestZeroTTLDisablesCache(t *testing.T) {
	repo := &fakeAnalyticsRepo{}
	service := NewService(repo, newMapCache(), money("10"), 0)

	for i := 0; i < 2; i++ {
		if _, err := service.Collections(context.Background(), 2026); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if repo.paymentCalls != 2 {
		t.Fatalf("expected no caching, got %d repo calls", repo.paymentCalls)
	}
}

func TestCollectionsRejectsYear(t *testing.T) {
	service := NewService(&fakeAnalyticsRepo{}, nil, money("10"), 0)
	if _, err := service.Collections(context.Background(), 1999); err != ErrInvalidYear {
		t.Fatalf("expected ErrInvalidYear, got %v", err)
	}
}

func TestFinancialReportDetailed(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		payments: []PaymentPoint{
			{Amount: money("10"), Method: paymentdomain.MethodCash, Date: day(2026, time.January, 31)},
			{Amount: money("10"), Method: paymentdomain.MethodMobileMoney, Date: day(2026, time.February, 1)},
		},
		donations: []DonationPoint{
			{Amount: money("50"), Type: "offering", Date: day(2026, time.February, 28)},
		},
		expenses: []ExpensePoint{
			{Amount: money("5"), Category: "transport", Date: day(2026, time.January, 2)},
			{Amount: money("25"), Category: "food", Date: day(2026, time.February, 14)},
			{Amount: money("30"), Category: "food", Date: day(2026, time.March, 1)},
		},
	}
	service := NewService(repo, nil, money("10"), 0)
	from := day(2026, time.January, 1)
	to := day(2026, time.February, 28)

	report, err := service.FinancialReport(context.Background(), ReportFilter{From: &from, To: &to, Type: "detailed"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.Summary.TotalIncome.Equal(money("70")) || !report.Summary.TotalExpenses.Equal(money("30")) {
		t.Fatalf("unexpected summary %+v", report.Summary)
	}
	if report.Breakdown.Expenses != 2 || report.Breakdown.Payments != 2 || report.Breakdown.Donations != 1 {
		t.Fatalf("unexpected breakdown %+v", report.Breakdown)
	}
	if report.Detail == nil || len(report.Detail.Monthly) != 2 {
		t.Fatalf("expected two monthly flows, got %+v", report.Detail)
	}
	if !report.Detail.Monthly[1].Net.Equal(money("35")) {
		t.Fatalf("expected february net 35, got %s", report.Detail.Monthly[1].Net)
	}
	if report.Detail.ExpensesByCategory[0].Name != "food" {
		t.Fatalf("expected food first, got %+v", report.Detail.ExpensesByCategory)
	}
}

func TestFinancialReportSummaryDefaultsToYear(t *testing.T) {
	service := NewService(&fakeAnalyticsRepo{}, nil, money("10"), 0)
	service.now = func() time.Time { return day(2026, time.October, 19) }

	report, err := service.FinancialReport(context.Background(), ReportFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Type != ReportSummary || report.Detail != nil {
		t.Fatalf("expected summary report, got %+v", report)
	}
	if !report.From.Equal(day(2026, time.January, 1)) || !report.To.Equal(day(2026, time.December, 31)) {
		t.Fatalf("unexpected period %s..%s", report.From, report.To)
	}
}

func TestFinancialReportValidation(t *testing.T) {
	service := NewService(&fakeAnalyticsRepo{}, nil, money("10"), 0)
	from := day(2026, time.March, 1)
	to := day(2026, time.January, 1)

	if _, err := service.FinancialReport(context.Background(), ReportFilter{From: &from, To: &to}); err != ErrInvalidRange {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if _, err := service.FinancialReport(context.Background(), ReportFilter{Type: "weekly"}); err != ErrInvalidReportType {
		t.Fatalf("expected ErrInvalidReportType, got %v", err)
	}
}

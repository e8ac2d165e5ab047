package analytics

import (
	"time"

	paymentdomain "dues-app-go/internal/domain/payment"
	"github.com/shopspring/decimal"
)

// PaymentPoint is the slice of a payment row the aggregations need.
type PaymentPoint struct {
	MemberID string
	Amount   decimal.Decimal
	Method   paymentdomain.Method
	Date     time.Time
}

type DonationPoint struct {
	Amount decimal.Decimal
	Type   string
	Date   time.Time
}

type ExpensePoint struct {
	Amount   decimal.Decimal
	Category string
	Date     time.Time
}

type MemberCounts struct {
	TotalMembers  int64
	ActiveMembers int64
	MembersOwing  int64
	TotalOwing    decimal.Decimal
}

type MonthBucket struct {
	Month     string
	Key       string
	Collected decimal.Decimal
	Target    decimal.Decimal
	Members   int
}

type MethodShare struct {
	Name    string
	Method  paymentdomain.Method
	Percent int64
	Amount  decimal.Decimal
	Count   int64
}

type Collections struct {
	Months  []MonthBucket
	Methods []MethodShare
	Total   decimal.Decimal
}

type Activity struct {
	ID          string
	MemberName  string
	Description string
	Amount      decimal.Decimal
	Method      paymentdomain.Method
	Date        time.Time
}

type Stats struct {
	TotalMembers          int64
	ActiveMembers         int64
	MembersOwing          int64
	TotalOwing            decimal.Decimal
	TotalIncome           decimal.Decimal
	TotalExpenses         decimal.Decimal
	NetBalance            decimal.Decimal
	CurrentMonthCollected decimal.Decimal
	MonthlyTarget         decimal.Decimal
	MonthlyCollections    []MonthBucket
	PaymentMethods        []MethodShare
	RecentActivity        []Activity
}

type ReportType string

const (
	ReportSummary  ReportType = "summary"
	ReportDetailed ReportType = "detailed"
)

type ReportFilter struct {
	From *time.Time
	To   *time.Time
	Type ReportType
}

type ReportSummaryTotals struct {
	TotalIncome    decimal.Decimal
	PaymentIncome  decimal.Decimal
	DonationIncome decimal.Decimal
	TotalExpenses  decimal.Decimal
	NetBalance     decimal.Decimal
}

type ReportBreakdown struct {
	Payments  int64
	Donations int64
	Expenses  int64
}

type MonthlyFlow struct {
	Month    string
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Net      decimal.Decimal
}

type GroupTotal struct {
	Name   string
	Amount decimal.Decimal
	Count  int64
}

type ReportDetail struct {
	Monthly            []MonthlyFlow
	ExpensesByCategory []GroupTotal
	DonationsByType    []GroupTotal
	PaymentsByMethod   []MethodShare
}

type FinancialReport struct {
	Type      ReportType
	From      time.Time
	To        time.Time
	Summary   ReportSummaryTotals
	Breakdown ReportBreakdown
	Detail    *ReportDetail
}

package dashboard

import (
	analyticsdomain "dues-app-go/internal/domain/analytics"
)

type statsResponse struct {
	TotalMembers          int64              `json:"total_members"`
	ActiveMembers         int64              `json:"active_members"`
	MembersOwing          int64              `json:"members_owing"`
	TotalOwing            float64            `json:"total_owing"`
	TotalIncome           float64            `json:"total_income"`
	TotalExpenses         float64            `json:"total_expenses"`
	NetBalance            float64            `json:"net_balance"`
	CurrentMonthCollected float64            `json:"current_month_collected"`
	MonthlyTarget         float64            `json:"monthly_target"`
	MonthlyCollections    []bucketResponse   `json:"monthly_collections"`
	PaymentMethods        []methodResponse   `json:"payment_methods"`
	RecentActivity        []activityResponse `json:"recent_activity"`
}

type bucketResponse struct {
	Month     string  `json:"month"`
	Key       string  `json:"key"`
	Collected float64 `json:"collected"`
	Target    float64 `json:"target"`
	Members   int     `json:"members"`
}

type methodResponse struct {
	Name   string  `json:"name"`
	Method string  `json:"method"`
	Value  int64   `json:"value"`
	Amount float64 `json:"amount"`
	Count  int64   `json:"count"`
}

type activityResponse struct {
	ID          string  `json:"id"`
	MemberName  string  `json:"member_name"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Method      string  `json:"payment_method"`
	Date        string  `json:"date"`
}

type reportResponse struct {
	Type      string                `json:"type"`
	Period    periodResponse        `json:"period"`
	Summary   reportSummaryResponse `json:"summary"`
	Breakdown breakdownResponse     `json:"breakdown"`
	Detail    *detailResponse       `json:"details,omitempty"`
}

type periodResponse struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type reportSummaryResponse struct {
	TotalIncome    float64 `json:"totalIncome"`
	PaymentIncome  float64 `json:"paymentIncome"`
	DonationIncome float64 `json:"donationIncome"`
	TotalExpenses  float64 `json:"totalExpenses"`
	NetBalance     float64 `json:"netBalance"`
}

type breakdownResponse struct {
	Payments  int64 `json:"payments"`
	Donations int64 `json:"donations"`
	Expenses  int64 `json:"expenses"`
}

type detailResponse struct {
	Monthly            []flowResponse   `json:"monthly"`
	ExpensesByCategory []groupResponse  `json:"expensesByCategory"`
	DonationsByType    []groupResponse  `json:"donationsByType"`
	PaymentsByMethod   []methodResponse `json:"paymentsByMethod"`
}

type flowResponse struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
}

type groupResponse struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Count  int64   `json:"count"`
}

func toStatsResponse(stats analyticsdomain.Stats) statsResponse {
	activity := make([]activityResponse, 0, len(stats.RecentActivity))
	for _, item := range stats.RecentActivity {
		activity = append(activity, activityResponse{
			ID:          item.ID,
			MemberName:  item.MemberName,
			Description: item.Description,
			Amount:      item.Amount.InexactFloat64(),
			Method:      string(item.Method),
			Date:        formatTime(item.Date),
		})
	}

	return statsResponse{
		TotalMembers:          stats.TotalMembers,
		ActiveMembers:         stats.ActiveMembers,
		MembersOwing:          stats.MembersOwing,
		TotalOwing:            stats.TotalOwing.InexactFloat64(),
		TotalIncome:           stats.TotalIncome.InexactFloat64(),
		TotalExpenses:         stats.TotalExpenses.InexactFloat64(),
		NetBalance:            stats.NetBalance.InexactFloat64(),
		CurrentMonthCollected: stats.CurrentMonthCollected.InexactFloat64(),
		MonthlyTarget:         stats.MonthlyTarget.InexactFloat64(),
		MonthlyCollections:    toBucketResponses(stats.MonthlyCollections),
		PaymentMethods:        toMethodResponses(stats.PaymentMethods),
		RecentActivity:        activity,
	}
}

func toBucketResponses(buckets []analyticsdomain.MonthBucket) []bucketResponse {
	response := make([]bucketResponse, 0, len(buckets))
	for _, bucket := range buckets {
		response = append(response, bucketResponse{
			Month:     bucket.Month,
			Key:       bucket.Key,
			Collected: bucket.Collected.InexactFloat64(),
			Target:    bucket.Target.InexactFloat64(),
			Members:   bucket.Members,
		})
	}
	return response
}

func toMethodResponses(methods []analyticsdomain.MethodShare) []methodResponse {
	response := make([]methodResponse, 0, len(methods))
	for _, method := range methods {
		response = append(response, methodResponse{
			Name:   method.Name,
			Method: string(method.Method),
			Value:  method.Percent,
			Amount: method.Amount.InexactFloat64(),
			Count:  method.Count,
		})
	}
	return response
}

func toGroupResponses(groups []analyticsdomain.GroupTotal) []groupResponse {
	response := make([]groupResponse, 0, len(groups))
	for _, group := range groups {
		response = append(response, groupResponse{Name: group.Name, Amount: group.Amount.InexactFloat64(), Count: group.Count})
	}
	return response
}

func toReportResponse(report analyticsdomain.FinancialReport) reportResponse {
	response := reportResponse{
		Type: string(report.Type),
		Period: periodResponse{
			StartDate: formatDate(report.From),
			EndDate:   formatDate(report.To),
		},
		Summary: reportSummaryResponse{
			TotalIncome:    report.Summary.TotalIncome.InexactFloat64(),
			PaymentIncome:  report.Summary.PaymentIncome.InexactFloat64(),
			DonationIncome: report.Summary.DonationIncome.InexactFloat64(),
			TotalExpenses:  report.Summary.TotalExpenses.InexactFloat64(),
			NetBalance:     report.Summary.NetBalance.InexactFloat64(),
		},
		Breakdown: breakdownResponse{
			Payments:  report.Breakdown.Payments,
			Donations: report.Breakdown.Donations,
			Expenses:  report.Breakdown.Expenses,
		},
	}

	if report.Detail != nil {
		flows := make([]flowResponse, 0, len(report.Detail.Monthly))
		for _, flow := range report.Detail.Monthly {
			flows = append(flows, flowResponse{
				Month:    flow.Month,
				Income:   flow.Income.InexactFloat64(),
				Expenses: flow.Expenses.InexactFloat64(),
				Net:      flow.Net.InexactFloat64(),
			})
		}
		response.Detail = &detailResponse{
			Monthly:            flows,
			ExpensesByCategory: toGroupResponses(report.Detail.ExpensesByCategory),
			DonationsByType:    toGroupResponses(report.Detail.DonationsByType),
			PaymentsByMethod:   toMethodResponses(report.Detail.PaymentsByMethod),
		}
	}
	return response
}

package analytics

import (
	"sort"
	"time"

	paymentdomain "dues-app-go/internal/domain/payment"
	"github.com/shopspring/decimal"
)

const bucketCount = 12

var hundred = decimal.NewFromInt(100)

// Aggregate buckets payments into the twelve calendar months starting at the
// month of start. Payments outside that window are ignored, so the sum of the
// buckets always equals Total.
func Aggregate(start time.Time, payments []PaymentPoint, monthlyTarget decimal.Decimal) Collections {
	first := monthStart(start)

	months := make([]MonthBucket, bucketCount)
	payers := make([]map[string]struct{}, bucketCount)
	for i := range months {
		month := first.AddDate(0, i, 0)
		months[i] = MonthBucket{
			Month:     month.Format("Jan"),
			Key:       month.Format("2006-01"),
			Collected: decimal.Zero,
			Target:    monthlyTarget,
		}
		payers[i] = make(map[string]struct{})
	}

	inWindow := make([]PaymentPoint, 0, len(payments))
	total := decimal.Zero
	for _, payment := range payments {
		idx := monthIndex(first, payment.Date)
		if idx < 0 || idx >= bucketCount {
			continue
		}
		months[idx].Collected = months[idx].Collected.Add(payment.Amount)
		if payment.MemberID != "" {
			payers[idx][payment.MemberID] = struct{}{}
		}
		total = total.Add(payment.Amount)
		inWindow = append(inWindow, payment)
	}

	for i := range months {
		months[i].Members = len(payers[i])
	}

	return Collections{
		Months:  months,
		Methods: MethodBreakdown(inWindow),
		Total:   total,
	}
}

// MethodBreakdown lists every known method, then any unknown ones seen in
// the data. Percent is the rounded share of the total amount.
func MethodBreakdown(payments []PaymentPoint) []MethodShare {
	byMethod := make(map[paymentdomain.Method]*MethodShare)
	total := decimal.Zero
	for _, payment := range payments {
		share, ok := byMethod[payment.Method]
		if !ok {
			share = &MethodShare{Method: payment.Method, Name: payment.Method.Label(), Amount: decimal.Zero}
			byMethod[payment.Method] = share
		}
		share.Amount = share.Amount.Add(payment.Amount)
		share.Count++
		total = total.Add(payment.Amount)
	}

	result := make([]MethodShare, 0, len(byMethod)+len(paymentdomain.Methods))
	for _, method := range paymentdomain.Methods {
		share, ok := byMethod[method]
		if !ok {
			share = &MethodShare{Method: method, Name: method.Label(), Amount: decimal.Zero}
		}
		result = append(result, *share)
		delete(byMethod, method)
	}

	extra := make([]MethodShare, 0, len(byMethod))
	for _, share := range byMethod {
		extra = append(extra, *share)
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i].Method < extra[j].Method })
	result = append(result, extra...)

	if total.IsPositive() {
		for i := range result {
			result[i].Percent = result[i].Amount.Div(total).Mul(hundred).Round(0).IntPart()
		}
	}
	return result
}

// Flows sums income and expenses per calendar month between from and to.
func Flows(from, to time.Time, payments []PaymentPoint, donations []DonationPoint, expenses []ExpensePoint) []MonthlyFlow {
	first := monthStart(from)
	last := monthStart(to)
	if last.Before(first) {
		return []MonthlyFlow{}
	}

	count := monthIndex(first, last) + 1
	flows := make([]MonthlyFlow, count)
	for i := range flows {
		flows[i] = MonthlyFlow{
			Month:    first.AddDate(0, i, 0).Format("2006-01"),
			Income:   decimal.Zero,
			Expenses: decimal.Zero,
		}
	}

	addIncome := func(date time.Time, amount decimal.Decimal) {
		if idx := monthIndex(first, date); idx >= 0 && idx < count {
			flows[idx].Income = flows[idx].Income.Add(amount)
		}
	}
	for _, payment := range payments {
		addIncome(payment.Date, payment.Amount)
	}
	for _, donation := range donations {
		addIncome(donation.Date, donation.Amount)
	}
	for _, expense := range expenses {
		if idx := monthIndex(first, expense.Date); idx >= 0 && idx < count {
			flows[idx].Expenses = flows[idx].Expenses.Add(expense.Amount)
		}
	}

	for i := range flows {
		flows[i].Net = flows[i].Income.Sub(flows[i].Expenses)
	}
	return flows
}

// GroupTotals sums amounts per name, largest first.
func GroupTotals(names []string, amounts []decimal.Decimal) []GroupTotal {
	index := make(map[string]int)
	result := make([]GroupTotal, 0)
	for i, name := range names {
		pos, ok := index[name]
		if !ok {
			pos = len(result)
			index[name] = pos
			result = append(result, GroupTotal{Name: name, Amount: decimal.Zero})
		}
		result[pos].Amount = result[pos].Amount.Add(amounts[i])
		result[pos].Count++
	}

	sort.SliceStable(result, func(i, j int) bool {
		if cmp := result[i].Amount.Cmp(result[j].Amount); cmp != 0 {
			return cmp > 0
		}
		return result[i].Name < result[j].Name
	})
	return result
}

func sumPayments(payments []PaymentPoint) decimal.Decimal {
	total := decimal.Zero
	for _, payment := range payments {
		total = total.Add(payment.Amount)
	}
	return total
}

func sumDonations(donations []DonationPoint) decimal.Decimal {
	total := decimal.Zero
	for _, donation := range donations {
		total = total.Add(donation.Amount)
	}
	return total
}

func sumExpenses(expenses []ExpensePoint) decimal.Decimal {
	total := decimal.Zero
	for _, expense := range expenses {
		total = total.Add(expense.Amount)
	}
	return total
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func monthIndex(first, t time.Time) int {
	t = t.UTC()
	return (t.Year()-first.Year())*12 + int(t.Month()) - int(first.Month())
}

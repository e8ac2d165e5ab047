package member

import (
	"sort"
	"strings"
	"time"
)

const monthLayout = "2006-01"

// ParseMonth validates a YYYY-MM month key.
func ParseMonth(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if len(value) != len(monthLayout) {
		return time.Time{}, ErrInvalidMonth
	}
	parsed, err := time.Parse(monthLayout, value)
	if err != nil {
		return time.Time{}, ErrInvalidMonth
	}
	return parsed, nil
}

// NormalizeMonths validates, dedupes and sorts month keys.
func NormalizeMonths(values []string) ([]string, error) {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if _, err := ParseMonth(value); err != nil {
			return nil, err
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	sort.Strings(result)
	return result, nil
}

func MonthKey(t time.Time) string {
	return t.Format(monthLayout)
}

func (m MemberWithMonths) OwingMonthKeys() []string {
	return monthKeys(m.OwingMonths)
}

func (m MemberWithMonths) CreditMonthKeys() []string {
	return monthKeys(m.CreditMonths)
}

func monthKeys(items []MonthAmount) []string {
	keys := make([]string, 0, len(items))
	for _, item := range items {
		keys = append(keys, item.Month)
	}
	return keys
}

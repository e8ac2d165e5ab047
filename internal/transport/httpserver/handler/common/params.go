package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultLimit = 50
	MaxLimit     = 100
	// MaxPage keeps (Page-1)*Limit well inside the range of an int.
	MaxPage      = 1_000_000
)

type Page struct {
	Page  int
	Limit int
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

func ParseDateParam(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, value)
		if err != nil {
			return nil, err
		}
	}
	return &parsed, nil
}

func ParseCSV(value string) []string {
	parts := strings.Split(value, ",")
	seen := make(map[string]struct{}, len(parts))
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		result = append(result, item)
	}
	return result
}

func ParseIntParam(value string, fallback int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, fmt.Errorf("invalid int")
	}
	return parsed, nil
}

// ParsePage reads page and limit. page starts at 1 and limit is capped at MaxLimit.
func ParsePage(page, limit string, defaultLimit int) (Page, error) {
	p, err := ParseIntParam(page, 1)
	if err != nil || p < 1 || p > MaxPage {
		return Page{}, fmt.Errorf("invalid page")
	}
	l, err := ParseIntParam(limit, defaultLimit)
	if err != nil || l < 1 || l > MaxLimit {
		return Page{}, fmt.Errorf("invalid limit")
	}
	return Page{Page: p, Limit: l}, nil
}

package inmemory

import (
	"testing"
	"time"

	analyticsdomain "dues-app-go/internal/domain/analytics"
	expensesdomain "dues-app-go/internal/domain/expenses"
	"github.com/shopspring/decimal"
)

func TestDashboardCacheFlush(t *testing.T) {
	c := NewDashboardCache()
	c.SetStats("stats:2026-10", analyticsdomain.Stats{TotalMembers: 3}, time.Minute)
	c.SetCollections("collections:2026", analyticsdomain.Collections{Total: decimal.NewFromInt(5)}, time.Minute)

	stats, ok := c.GetStats("stats:2026-10")
	if !ok || stats.TotalMembers != 3 {
		t.Fatalf("expected cached stats, got %+v %v", stats, ok)
	}

	c.Flush()
	if _, ok := c.GetStats("stats:2026-10"); ok {
		t.Fatalf("expected stats to be flushed")
	}
	if _, ok := c.GetCollections("collections:2026"); ok {
		t.Fatalf("expected collections to be flushed")
	}
}

func TestDashboardCacheZeroTTL(t *testing.T) {
	c := NewDashboardCache()
	c.SetStats("k", analyticsdomain.Stats{}, 0)
	if _, ok := c.GetStats("k"); ok {
		t.Fatalf("expected zero ttl to skip caching")
	}
}

func TestDashboardCacheTypeMismatch(t *testing.T) {
	c := NewDashboardCache()
	c.SetStats("k", analyticsdomain.Stats{}, time.Minute)
	if _, ok := c.GetCollections("k"); ok {
		t.Fatalf("expected mismatched type to miss")
	}
}

func TestCategoriesCacheReturnsCopy(t *testing.T) {
	c := NewCategoriesCache()
	c.Set([]expensesdomain.CategorySummary{{Category: "food", Count: 1}}, time.Minute)

	first, ok := c.Get()
	if !ok {
		t.Fatalf("expected cached categories")
	}
	first[0].Category = "changed"

	second, _ := c.Get()
	if second[0].Category != "food" {
		t.Fatalf("expected cache to be isolated from callers, got %s", second[0].Category)
	}

	c.Delete()
	if _, ok := c.Get(); ok {
		t.Fatalf("expected categories to be deleted")
	}
}

func TestRateLimiterPerKey(t *testing.T) {
	l := NewRateLimiter(time.Hour, 2)

	if !l.Allow("1.1.1.1") || !l.Allow("1.1.1.1") {
		t.Fatalf("expected first two requests to pass")
	}
	if l.Allow("1.1.1.1") {
		t.Fatalf("expected third request to be limited")
	}
	if !l.Allow("2.2.2.2") {
		t.Fatalf("expected other clients to have their own bucket")
	}
	if l.RetryAfter("1.1.1.1") <= 0 {
		t.Fatalf("expected a positive retry delay")
	}
}

package inmemory

import (
	"time"

	expensesdomain "dues-app-go/internal/domain/expenses"
	"github.com/patrickmn/go-cache"
)

const categoriesKey = "expense_categories"

type CategoriesCache struct {
	items *cache.Cache
}

func NewCategoriesCache() *CategoriesCache {
	return &CategoriesCache{
		items: cache.New(cache.NoExpiration, 10*time.Minute),
	}
}

func (c *CategoriesCache) Get() ([]expensesdomain.CategorySummary, bool) {
	value, ok := c.items.Get(categoriesKey)
	if !ok {
		return nil, false
	}
	categories, ok := value.([]expensesdomain.CategorySummary)
	if !ok {
		return nil, false
	}
	return cloneCategories(categories), true
}

func (c *CategoriesCache) Set(categories []expensesdomain.CategorySummary, ttl time.Duration) {
	if ttl <= 0 {
		c.Delete()
		return
	}
	c.items.Set(categoriesKey, cloneCategories(categories), ttl)
}

func (c *CategoriesCache) Delete() {
	c.items.Delete(categoriesKey)
}

func cloneCategories(categories []expensesdomain.CategorySummary) []expensesdomain.CategorySummary {
	if categories == nil {
		return nil
	}
	cloned := make([]expensesdomain.CategorySummary, len(categories))
	copy(cloned, categories)
	return cloned
}

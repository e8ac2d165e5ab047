package expenses

import "time"

type CategoriesCache interface {
	Get() ([]CategorySummary, bool)
	Set(categories []CategorySummary, ttl time.Duration)
	Delete()
}

type noopCategoriesCache struct{}

func (noopCategoriesCache) Get() ([]CategorySummary, bool) {
	return nil, false
}

func (noopCategoriesCache) Set([]CategorySummary, time.Duration) {}

func (noopCategoriesCache) Delete() {}

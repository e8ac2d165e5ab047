package analytics

import "time"

type Cache interface {
	GetStats(key string) (Stats, bool)
	SetStats(key string, stats Stats, ttl time.Duration)
	GetCollections(key string) (Collections, bool)
	SetCollections(key string, collections Collections, ttl time.Duration)
	Flush()
}

type noopCache struct{}

func (noopCache) GetStats(string) (Stats, bool) {
	return Stats{}, false
}

func (noopCache) SetStats(string, Stats, time.Duration) {}

func (noopCache) GetCollections(string) (Collections, bool) {
	return Collections{}, false
}

func (noopCache) SetCollections(string, Collections, time.Duration) {}

func (noopCache) Flush() {}

package inmemory

import (
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// RateLimiter hands out one token bucket per client key. A bucket refills
// max tokens over window and is forgotten after a window of inactivity.
type RateLimiter struct {
	buckets *cache.Cache
	limit   rate.Limit
	burst   int
	window  time.Duration
}

func NewRateLimiter(window time.Duration, max int) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &RateLimiter{
		buckets: cache.New(window, window),
		limit:   rate.Limit(float64(max) / window.Seconds()),
		burst:   max,
		window:  window,
	}
}

func (l *RateLimiter) Allow(key string) bool {
	return l.limiter(key).Allow()
}

// RetryAfter is how long key has to wait for its next token.
func (l *RateLimiter) RetryAfter(key string) time.Duration {
	reservation := l.limiter(key).Reserve()
	delay := reservation.Delay()
	reservation.Cancel()
	return delay
}

func (l *RateLimiter) limiter(key string) *rate.Limiter {
	if value, ok := l.buckets.Get(key); ok {
		limiter := value.(*rate.Limiter)
		l.buckets.Set(key, limiter, l.window)
		return limiter
	}

	limiter := rate.NewLimiter(l.limit, l.burst)
	if err := l.buckets.Add(key, limiter, l.window); err != nil {
		if value, ok := l.buckets.Get(key); ok {
			return value.(*rate.Limiter)
		}
	}
	return limiter
}

package ratelimit

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter *rate.Limiter
	last    time.Time
}

// Keyed is a token-bucket limiter per key (IP address, email, ...) with an
// LRU cap on tracked keys and periodic eviction of idle ones.
type Keyed struct {
	mu       sync.Mutex
	visitors *lru.Cache[string, *visitor]
	limit    rate.Limit
	burst    int
	ttl      time.Duration
}

func NewKeyed(limit rate.Limit, burst, cacheSize int, ttl time.Duration) *Keyed {
	visitors, _ := lru.New[string, *visitor](cacheSize)
	k := &Keyed{
		visitors: visitors,
		limit:    limit,
		burst:    burst,
		ttl:      ttl,
	}

	go func() {
		ticker := time.NewTicker(ttl)
		for range ticker.C {
			k.mu.Lock()
			for _, key := range k.visitors.Keys() {
				if v, ok := k.visitors.Peek(key); ok && time.Since(v.last) > ttl {
					k.visitors.Remove(key)
				}
			}
			k.mu.Unlock()
		}
	}()

	return k
}

// Allow reports whether an event for key may proceed now. When it may not,
// retryAfter estimates how long until the next token without consuming it.
func (k *Keyed) Allow(key string) (allowed bool, retryAfter time.Duration) {
	k.mu.Lock()
	v, ok := k.visitors.Get(key)
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.visitors.Add(key, v)
	}
	v.last = time.Now()
	k.mu.Unlock()

	r := v.limiter.Reserve()
	if d := r.Delay(); d > 0 {
		r.Cancel()
		return false, d
	}
	return true, 0
}

// Package ratelimit provides a per-key token-bucket limiter, used to keep
// one user from flooding the bot with commands.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// PerKey hands out one token-bucket limiter per key, created on first use.
// Buckets idle long enough are dropped to keep the map bounded.
type PerKey struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	buckets  map[string]*bucket
	lastSwep time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const sweepInterval = 10 * time.Minute

func NewPerKey(limit rate.Limit, burst int) *PerKey {
	if burst < 1 {
		burst = 1
	}
	return &PerKey{
		limit:    limit,
		burst:    burst,
		buckets:  make(map[string]*bucket),
		lastSwep: time.Now(),
	}
}

// Allow reports whether an event for key may proceed now.
func (p *PerKey) Allow(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	if now.Sub(p.lastSwep) > sweepInterval {
		for k, b := range p.buckets {
			if now.Sub(b.lastSeen) > sweepInterval {
				delete(p.buckets, k)
			}
		}
		p.lastSwep = now
	}

	b, ok := p.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(p.limit, p.burst)}
		p.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.Allow()
}

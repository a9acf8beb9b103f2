package ratelimit

import (
	"math"
	"sync"
	"time"
)

// TokenBucket implements the token bucket algorithm for rate limiting
type TokenBucket struct {
	capacity   int
	tokens     float64
	refillRate float64 // tokens added per second
	lastRefill time.Time
	now        func() time.Time
	mu         sync.Mutex
}

// NewTokenBucket creates a full bucket.
// capacity: maximum burst; refillRate: tokens per second
func NewTokenBucket(capacity int, refillRate float64) *TokenBucket {
	return newTokenBucket(capacity, refillRate, time.Now)
}

func newTokenBucket(capacity int, refillRate float64, now func() time.Time) *TokenBucket {
	return &TokenBucket{
		capacity:   capacity,
		tokens:     float64(capacity),
		refillRate: refillRate,
		lastRefill: now(),
		now:        now,
	}
}

func (tb *TokenBucket) refill() {
	now := tb.now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tb.tokens = min(float64(tb.capacity), tb.tokens+elapsed*tb.refillRate)
	tb.lastRefill = now
}

// Allow takes one token if available.
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()
	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		return true
	}
	return false
}

// RetryAfter is the wait until the next token, rounded up to whole seconds.
func (tb *TokenBucket) RetryAfter() time.Duration {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()
	if tb.tokens >= 1.0 || tb.refillRate <= 0 {
		return 0
	}
	seconds := math.Ceil((1.0 - tb.tokens) / tb.refillRate)
	return time.Duration(seconds) * time.Second
}

func (tb *TokenBucket) Tokens() float64 {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.tokens
}

func (tb *TokenBucket) Reset() {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.tokens = float64(tb.capacity)
	tb.lastRefill = tb.now()
}

func (tb *TokenBucket) idleSince() time.Time {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.lastRefill
}

// RateLimiter keeps one token bucket per key
type RateLimiter struct {
	buckets    map[string]*TokenBucket
	capacity   int
	refillRate float64
	ttl        time.Duration // inactive buckets are dropped after ttl; 0 keeps them
	now        func() time.Time
	mu         sync.Mutex
	stop       chan struct{}
	stopOnce   sync.Once
}

// NewRateLimiter starts a cleanup goroutine when ttl > 0; call Close to stop it.
func NewRateLimiter(capacity int, refillRate float64, ttl time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets:    make(map[string]*TokenBucket),
		capacity:   capacity,
		refillRate: refillRate,
		ttl:        ttl,
		now:        time.Now,
		stop:       make(chan struct{}),
	}

	if ttl > 0 {
		go rl.cleanupLoop()
	}
	return rl
}

func (rl *RateLimiter) bucket(key string) *TokenBucket {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]
	if !ok {
		b = newTokenBucket(rl.capacity, rl.refillRate, rl.now)
		rl.buckets[key] = b
	}
	return b
}

// Allow checks if a request for the given key should be allowed
func (rl *RateLimiter) Allow(key string) bool {
	return rl.bucket(key).Allow()
}

// RetryAfter returns how long key has to wait for its next request.
func (rl *RateLimiter) RetryAfter(key string) time.Duration {
	return rl.bucket(key).RetryAfter()
}

func (rl *RateLimiter) Reset(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if b, ok := rl.buckets[key]; ok {
		b.Reset()
	}
}

func (rl *RateLimiter) Remove(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.buckets, key)
}

// Close stops the cleanup goroutine.
func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stop:
			return
		}
	}
}

// cleanup removes buckets unused for longer than ttl
func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, b := range rl.buckets {
		if now.Sub(b.idleSince()) > rl.ttl {
			delete(rl.buckets, key)
		}
	}
}

type Stats struct {
	ActiveBuckets int     `json:"active_buckets"`
	Capacity      int     `json:"capacity"`
	RefillRate    float64 `json:"refill_rate"`
}

func (rl *RateLimiter) GetStats() Stats {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return Stats{
		ActiveBuckets: len(rl.buckets),
		Capacity:      rl.capacity,
		RefillRate:    rl.refillRate,
	}
}

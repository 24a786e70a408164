package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/MrSnakeDoc/abbrhelper/internal/utils"
)

type RateLimitConfig struct {
	Burst             int           // bucket capacity per client IP
	RefillPerIPPerMin int           // tokens added per minute
	MaxEntries        int           // sweep early once this many IPs are tracked (0 = no cap)
	SweepInterval     time.Duration // how often idle buckets are dropped
	IdleTTL           time.Duration // a bucket unused this long is dropped
	TrustProxy        bool          // resolve IP from proxy headers when true
	Now               func() time.Time
}

func (c *RateLimitConfig) defaults() {
	if c.Burst < 1 {
		c.Burst = 1
	}
	if c.RefillPerIPPerMin < 1 {
		c.RefillPerIPPerMin = 1
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = time.Minute
	}
	if c.IdleTTL <= 0 {
		c.IdleTTL = 15 * time.Minute
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

type tokenBucket struct {
	tokens  float64
	updated time.Time
}

type decision struct {
	allowed    bool
	remaining  int
	retryAfter int // seconds, set when denied
}

// tokenBuckets keeps one bucket per key behind a single lock; the critical
// section is a few float operations.
type tokenBuckets struct {
	cfg       RateLimitConfig
	perSecond float64

	mu        sync.Mutex
	buckets   map[string]*tokenBucket
	lastSweep time.Time
}

func newTokenBuckets(cfg RateLimitConfig) *tokenBuckets {
	cfg.defaults()
	return &tokenBuckets{
		cfg:       cfg,
		perSecond: float64(cfg.RefillPerIPPerMin) / 60,
		buckets:   make(map[string]*tokenBucket),
		lastSweep: cfg.Now(),
	}
}

func (tb *tokenBuckets) take(key string) decision {
	now := tb.cfg.Now()
	capacity := float64(tb.cfg.Burst)

	tb.mu.Lock()
	defer tb.mu.Unlock()

	if now.Sub(tb.lastSweep) >= tb.cfg.SweepInterval ||
		(tb.cfg.MaxEntries > 0 && len(tb.buckets) >= tb.cfg.MaxEntries) {
		tb.sweep(now)
	}

	b, ok := tb.buckets[key]
	if !ok {
		b = &tokenBucket{tokens: capacity, updated: now}
		tb.buckets[key] = b
	}
	if elapsed := now.Sub(b.updated).Seconds(); elapsed > 0 {
		b.tokens = math.Min(capacity, b.tokens+elapsed*tb.perSecond)
	}
	b.updated = now

	if b.tokens < 1 {
		wait := int(math.Ceil((1 - b.tokens) / tb.perSecond))
		return decision{retryAfter: max(wait, 1)}
	}
	b.tokens--
	return decision{allowed: true, remaining: int(b.tokens)}
}

// sweep drops idle buckets. A full bucket carries no state worth keeping.
func (tb *tokenBuckets) sweep(now time.Time) {
	for key, b := range tb.buckets {
		if now.Sub(b.updated) > tb.cfg.IdleTTL {
			delete(tb.buckets, key)
		}
	}
	tb.lastSweep = now
}

// RateLimit applies a per-client-IP token bucket and reports it in the
// X-RateLimit-* headers. Denied requests get 429 with Retry-After.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	buckets := newTokenBuckets(cfg)
	limit := strconv.Itoa(buckets.cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := buckets.take(utils.ClientIP(r, buckets.cfg.TrustProxy))

			h := w.Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.Itoa(d.remaining))
			if !d.allowed {
				h.Set("Retry-After", strconv.Itoa(d.retryAfter))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Package ratelimit throttles api callers per client address.
package ratelimit

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// DefaultIdleTTL is how long a client's bucket survives without requests.
const DefaultIdleTTL = 10 * time.Minute

// Limiter keeps one token bucket per key. Buckets idle for longer than the
// idle ttl are dropped, so a returning client starts with a full burst.
type Limiter struct {
	mu      sync.Mutex
	buckets *gocache.Cache
	idleTTL time.Duration
	rate    rate.Limit
	burst   int
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithIdleTTL overrides DefaultIdleTTL.
func WithIdleTTL(ttl time.Duration) Option {
	return func(l *Limiter) {
		if ttl > 0 {
			l.idleTTL = ttl
		}
	}
}

// New creates a limiter allowing requestsPerSecond with the given burst per key.
func New(requestsPerSecond float64, burst int, opts ...Option) *Limiter {
	if burst <= 0 {
		burst = 1
	}
	l := &Limiter{
		idleTTL: DefaultIdleTTL,
		rate:    rate.Limit(requestsPerSecond),
		burst:   burst,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.buckets = gocache.New(l.idleTTL, l.idleTTL/2)
	return l
}

// Allow reports whether key may proceed now.
func (l *Limiter) Allow(key string) bool {
	return l.get(key).Allow()
}

// Len reports how many client buckets are tracked, expired ones included
// until the next cleanup.
func (l *Limiter) Len() int {
	return l.buckets.ItemCount()
}

func (l *Limiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	var bucket *rate.Limiter
	if v, ok := l.buckets.Get(key); ok {
		bucket = v.(*rate.Limiter)
	} else {
		bucket = rate.NewLimiter(l.rate, l.burst)
	}
	l.buckets.Set(key, bucket, l.idleTTL)
	return bucket
}

// Middleware rejects requests over the limit with 429. Run it after
// chi's RealIP so RemoteAddr carries the client address.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientKey(r)) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":   "Too many requests",
				"message": "Please slow down and try again shortly",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

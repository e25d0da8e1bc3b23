// Package ratelimit throttles requests against the stat source on a
// per-host basis so repeated harvest runs stay polite.
package ratelimit

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter gates outbound requests by URL.
type RateLimiter interface {
	// Wait blocks until a request for the given URL may proceed, or the
	// context is cancelled.
	Wait(ctx context.Context, urlStr string) error

	// Allow reports whether a request may proceed immediately.
	Allow(urlStr string) bool
}

// HostLimiter applies a token-bucket limit per host. The source site is a
// single host in practice, but keying by host keeps the limiter correct
// if source URLs ever diverge.
type HostLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	perHost  rate.Limit
	burst    int
}

// NewHostLimiter creates a limiter allowing requestsPerSecond per host
// with the given burst capacity.
func NewHostLimiter(requestsPerSecond float64, burst int) *HostLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1.0
	}
	if burst <= 0 {
		burst = 2
	}
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		perHost:  rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

func (hl *HostLimiter) Wait(ctx context.Context, urlStr string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	host := extractHost(urlStr)
	if host == "" {
		// Invalid URL, let it proceed (it will fail at fetch time).
		return nil
	}
	return hl.limiter(host).Wait(ctx)
}

func (hl *HostLimiter) Allow(urlStr string) bool {
	host := extractHost(urlStr)
	if host == "" {
		return true
	}
	return hl.limiter(host).Allow()
}

func (hl *HostLimiter) limiter(host string) *rate.Limiter {
	hl.mu.RLock()
	lim, ok := hl.limiters[host]
	hl.mu.RUnlock()
	if ok {
		return lim
	}

	hl.mu.Lock()
	defer hl.mu.Unlock()
	if lim, ok := hl.limiters[host]; ok {
		return lim
	}
	lim = rate.NewLimiter(hl.perHost, hl.burst)
	hl.limiters[host] = lim
	return lim
}

func extractHost(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Host
}

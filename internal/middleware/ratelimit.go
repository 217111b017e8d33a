package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimiter caps requests per client IP inside a fixed window. The auth
// routes sit behind it so credential stuffing cannot hammer bcrypt.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   int
	window  time.Duration
}

type bucket struct {
	count       int
	windowStart time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		window:  window,
	}

	// Drop buckets whose window has lapsed so the map stays bounded
	go func() {
		for {
			time.Sleep(window)
			rl.mu.Lock()
			for ip, b := range rl.buckets {
				if time.Since(b.windowStart) > window {
					delete(rl.buckets, ip)
				}
			}
			rl.mu.Unlock()
		}
	}()

	return rl
}

// allow counts a request against the caller's bucket. When the limit is
// exceeded it reports how long until the window resets.
func (rl *RateLimiter) allow(ip string) (bool, time.Duration) {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.buckets[ip]
	if !exists || now.Sub(b.windowStart) > rl.window {
		rl.buckets[ip] = &bucket{count: 1, windowStart: now}
		return true, 0
	}

	b.count++
	if b.count > rl.limit {
		return false, rl.window - now.Sub(b.windowStart)
	}
	return true, 0
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Key on the host alone so ephemeral ports share one bucket
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		ok, retryAfter := rl.allow(ip)
		if !ok {
			seconds := int(retryAfter.Seconds())
			if seconds < 1 {
				seconds = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.", r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

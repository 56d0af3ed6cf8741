package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"paysheet/internal/requestctx"
	"paysheet/internal/transport/http/api"
)

type rateBucket struct {
	count int
	reset time.Time
}

// RateLimit is a fixed-window limiter keyed by authenticated owner, falling
// back to client IP. Buckets for past windows are dropped as they are
// touched, so memory stays proportional to active clients.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	var mu sync.Mutex
	buckets := map[string]*rateBucket{}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)

			mu.Lock()
			bucket, ok := buckets[key]
			now := time.Now()
			if !ok || now.After(bucket.reset) {
				bucket = &rateBucket{reset: now.Add(window)}
				buckets[key] = bucket
			}
			bucket.count++
			exceeded := bucket.count > limit
			mu.Unlock()

			if exceeded {
				api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if owner, ok := requestctx.GetOwnerID(r.Context()); ok {
		return "owner:" + owner
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "ip:" + r.RemoteAddr
	}
	return "ip:" + host
}

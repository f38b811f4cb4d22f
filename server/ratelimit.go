package server

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// uploadLimiter hands out one token-bucket limiter per client address so a
// single uploader cannot monopolize the analysis pipeline.
type uploadLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

func newUploadLimiter(rps float64, burst int) *uploadLimiter {
	return &uploadLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

func (u *uploadLimiter) limiter(addr string) *rate.Limiter {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	l, ok := u.limiters[host]
	if !ok {
		l = rate.NewLimiter(u.rps, u.burst)
		u.limiters[host] = l
	}
	return l
}

// middleware rejects requests exceeding the per-client rate with 429.
func (u *uploadLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !u.limiter(r.RemoteAddr).Allow() {
			http.Error(w, "too many uploads, slow down", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

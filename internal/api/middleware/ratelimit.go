package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/phrazzld/cirf-api/internal/api/shared"
	"github.com/phrazzld/cirf-api/internal/config"
	"golang.org/x/time/rate"
)

// RateLimitObserver is notified of every rejected request.
type RateLimitObserver interface {
	RecordRateLimited(route string)
}

// RateLimiter keeps one token bucket per client. Authenticated requests are
// keyed by user ID, anonymous ones by remote address. The number of tracked
// clients is bounded; the least recently seen client is evicted first.
type RateLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	clients  *lru.Cache[string, *rate.Limiter]
	observer RateLimitObserver
}

// NewRateLimiter creates a limiter from cfg. It returns nil when rate
// limiting is disabled; a nil *RateLimiter lets every request through.
func NewRateLimiter(cfg config.RateLimitConfig, observer RateLimitObserver) (*RateLimiter, error) {
	if cfg.RequestsPerMinute <= 0 {
		return nil, nil
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	size := cfg.MaxClients
	if size <= 0 {
		size = 10000
	}

	clients, err := lru.New[string, *rate.Limiter](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limiter cache: %w", err)
	}

	return &RateLimiter{
		limit:    rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute)),
		burst:    burst,
		clients:  clients,
		observer: observer,
	}, nil
}

// Allow reports whether the client identified by key may proceed now.
func (l *RateLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	limiter, ok := l.clients.Get(key)
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.clients.Add(key, limiter)
	}
	l.mu.Unlock()
	return limiter.Allow()
}

// Limit returns middleware rejecting requests over the limit with 429.
// route labels the rejection metric.
func (l *RateLimiter) Limit(route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(clientKey(r)) {
				if l.observer != nil {
					l.observer.RecordRateLimited(route)
				}
				retryAfter := int(time.Duration(float64(time.Second) / float64(l.limit)).Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests, "Too many requests",
					fmt.Errorf("rate limit exceeded on %s", route))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if userID, ok := shared.UserIDFromContext(r.Context()); ok {
		return "user:" + userID.String()
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host == "" {
		return "anonymous"
	}
	return "ip:" + host
}

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/foodshare/engine/internal/api/types"
	"github.com/foodshare/engine/pkg/logger"
)

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// RateLimit rejects requests once the client IP exhausts its quota. proxies
// decides which forwarding headers are believed; nil keys on the peer address.
func RateLimit(l Limiter, proxies *ProxyTrust) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(r.Context(), proxies.ClientIP(r)) {
				w.Header().Set("Retry-After", "1")
				types.WriteJSON(w, http.StatusTooManyRequests, types.APIResponse{
					Error: &types.APIError{Code: "rate_limited", Message: "too many requests"},
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type limiterEntry struct {
	limiter *rate.Limiter
	last    time.Time
}

// MemoryLimiter is a per-process token bucket per key.
type MemoryLimiter struct {
	rps   rate.Limit
	burst int

	mu       sync.Mutex
	visitors map[string]*limiterEntry
}

func NewMemoryLimiter(rps float64, burst int) *MemoryLimiter {
	return &MemoryLimiter{rps: rate.Limit(rps), burst: burst, visitors: map[string]*limiterEntry{}}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	le, ok := l.visitors[key]
	if !ok {
		le = &limiterEntry{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[key] = le
	}
	le.last = time.Now()
	return le.limiter.Allow()
}

// GC drops idle keys every interval until ctx is done.
func (l *MemoryLimiter) GC(ctx context.Context, interval, idle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			l.mu.Lock()
			for k, v := range l.visitors {
				if time.Since(v.last) > idle {
					delete(l.visitors, k)
				}
			}
			l.mu.Unlock()
		}
	}
}

var fixedWindowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// RedisLimiter is a fixed-window counter shared by every api replica.
// It fails closed when Redis is unreachable.
type RedisLimiter struct {
	client redis.UniversalClient
	prefix string
	limit  int
	window time.Duration
}

func NewRedisLimiter(client redis.UniversalClient, prefix string, limit int, window time.Duration) (*RedisLimiter, error) {
	if limit <= 0 || window < time.Millisecond {
		return nil, fmt.Errorf("rate limiter requires positive limit and a window of at least 1ms")
	}
	if prefix == "" {
		prefix = "foodshare:ratelimit"
	}
	return &RedisLimiter{client: client, prefix: prefix, limit: limit, window: window}, nil
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	windowMs := l.window.Milliseconds()
	slot := time.Now().UTC().UnixMilli() / windowMs
	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, slot)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	n, err := fixedWindowScript.Run(ctx, l.client, []string{redisKey}, windowMs).Int64()
	if err != nil {
		logger.FromContext(ctx).Warn("rate limiter unavailable", zap.Error(err))
		return false
	}
	return n <= int64(l.limit)
}

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterPerKey(t *testing.T) {
	l := NewMemoryLimiter(0.001, 2)
	ctx := context.Background()
	require.True(t, l.Allow(ctx, "a"))
	require.True(t, l.Allow(ctx, "a"))
	require.False(t, l.Allow(ctx, "a"))
	require.True(t, l.Allow(ctx, "b"))
}

func TestRedisLimiterFixedWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	l, err := NewRedisLimiter(client, "test:ratelimit", 2, time.Minute)
	require.NoError(t, err)
	ctx := context.Background()
	require.True(t, l.Allow(ctx, "ip-1"))
	require.True(t, l.Allow(ctx, "ip-1"))
	require.False(t, l.Allow(ctx, "ip-1"))
	require.True(t, l.Allow(ctx, "ip-2"))
}

func TestRedisLimiterFailsClosed(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	l, err := NewRedisLimiter(client, "", 5, time.Second)
	require.NoError(t, err)

	mr.Close()
	require.False(t, l.Allow(context.Background(), "ip-1"))
}

func TestNewRedisLimiterRejectsBadConfig(t *testing.T) {
	_, err := NewRedisLimiter(nil, "", 0, time.Second)
	require.Error(t, err)
	_, err = NewRedisLimiter(nil, "", 1, time.Microsecond)
	require.Error(t, err)
}

func TestRateLimitMiddleware(t *testing.T) {
	// httptest requests come from 192.0.2.1, here a trusted load balancer.
	proxies, err := NewProxyTrust([]string{"192.0.2.0/24"})
	require.NoError(t, err)
	h := RateLimit(NewMemoryLimiter(0.001, 1), proxies)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(xff string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/donor/login", nil)
		req.Header.Set("X-Forwarded-For", xff)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}
	require.Equal(t, http.StatusNoContent, do("1.1.1.1"))
	require.Equal(t, http.StatusTooManyRequests, do("1.1.1.1"))
	// a spoofed leading hop does not change the address the proxy saw
	require.Equal(t, http.StatusTooManyRequests, do("9.9.9.9, 1.1.1.1"))
	require.Equal(t, http.StatusNoContent, do("2.2.2.2"))
}

func TestRateLimitIgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	h := RateLimit(NewMemoryLimiter(0.001, 1), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	passed := 0
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/donor/login", nil)
		req.RemoteAddr = "203.0.113.7:41000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code == http.StatusNoContent {
			passed++
		}
	}
	require.Equal(t, 1, passed)
}

func TestProxyTrustClientIP(t *testing.T) {
	proxies, err := NewProxyTrust([]string{"10.0.0.0/8", "172.16.0.9"})
	require.NoError(t, err)

	cases := []struct {
		name   string
		remote string
		xff    []string
		want   string
	}{
		{"untrusted peer keeps its own address", "203.0.113.7:1", []string{"1.2.3.4"}, "203.0.113.7"},
		{"trusted peer without header", "10.1.1.1:1", nil, "10.1.1.1"},
		{"trusted peer forwards client", "10.1.1.1:1", []string{"198.51.100.3"}, "198.51.100.3"},
		{"chained trusted hops are skipped", "10.1.1.1:1", []string{"6.6.6.6, 198.51.100.3, 172.16.0.9"}, "198.51.100.3"},
		{"repeated headers are joined", "10.1.1.1:1", []string{"6.6.6.6", "198.51.100.3"}, "198.51.100.3"},
		{"garbage hop falls back to last trusted", "10.1.1.1:1", []string{"not-an-ip"}, "10.1.1.1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remote
			for _, v := range tc.xff {
				req.Header.Add("X-Forwarded-For", v)
			}
			require.Equal(t, tc.want, proxies.ClientIP(req))
		})
	}

	var none *ProxyTrust
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4")
	require.Equal(t, "192.0.2.1", none.ClientIP(req))

	_, err = NewProxyTrust([]string{"10.0.0.0/33"})
	require.Error(t, err)
	_, err = NewProxyTrust([]string{"proxy.local"})
	require.Error(t, err)
}

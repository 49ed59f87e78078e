package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newRateLimited(t *testing.T, mr *miniredis.Miniredis, limit int, prefix string) http.Handler {
	t.Helper()

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	config := RateLimitConfig{
		RequestsPerWindow: limit,
		Window:            time.Second,
		KeyPrefix:         prefix,
	}

	return RateLimitMiddleware(redisClient, config, zap.NewNop())(okHandler())
}

func TestProperty_RateLimitingBlocksExcessiveRequests(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("excessive requests are blocked with 429", prop.ForAll(
		func(requestsPerWindow int, excessRequests int) bool {
			mr := miniredis.RunT(t)
			handler := newRateLimited(t, mr, requestsPerWindow, "test_rate_limit")

			successCount, blockedCount := 0, 0
			for i := 0; i < requestsPerWindow+excessRequests; i++ {
				req := httptest.NewRequest("GET", "/products/", nil)
				req.RemoteAddr = "192.168.1.100"
				w := httptest.NewRecorder()

				handler.ServeHTTP(w, req)

				switch w.Code {
				case http.StatusOK:
					successCount++
				case http.StatusTooManyRequests:
					blockedCount++
				}
			}

			return successCount == requestsPerWindow && blockedCount == excessRequests
		},
		gen.IntRange(5, 20),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRateLimit_HeadersAndWindowReset(t *testing.T) {
	mr := miniredis.RunT(t)
	handler := newRateLimited(t, mr, 2, "test_rate_limit_headers")

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/shops/", nil)
		req.RemoteAddr = "192.168.1.101"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	w := do()
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	do()
	w = do()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	mr.FastForward(2 * time.Second)
	assert.Equal(t, http.StatusOK, do().Code)
}

func TestRateLimit_SourcePortDoesNotOpenNewWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	handler := newRateLimited(t, mr, 3, "test_rate_limit_ports")

	passed := 0
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest("GET", "/products/", nil)
		req.RemoteAddr = fmt.Sprintf("203.0.113.7:%d", 40000+i)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code == http.StatusOK {
			passed++
		}
	}

	assert.Equal(t, 3, passed)
	assert.Equal(t, []string{"test_rate_limit_ports:203.0.113.7"}, mr.Keys())
}

func TestRateLimit_CountsHostsSeparately(t *testing.T) {
	mr := miniredis.RunT(t)
	handler := newRateLimited(t, mr, 1, "test_rate_limit_hosts")

	do := func(remoteAddr string) int {
		req := httptest.NewRequest("GET", "/basket/", nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:5000"))
	assert.Equal(t, http.StatusOK, do("[2001:db8::1]:5000"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, do("[2001:db8::1]:6000"))
}

func TestRateLimit_FailsOpenWhenRedisIsDown(t *testing.T) {
	mr := miniredis.RunT(t)
	handler := newRateLimited(t, mr, 1, "test_rate_limit_down")
	mr.Close()

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/products/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/Baaaki/restaurant-directory/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRateLimiter(t testing.TB, maxRequests int, window time.Duration) (*RateLimiter, *testutil.TestRedis) {
	t.Helper()

	rdb := testutil.SetupTestRedis(t)
	rl := NewRateLimiter(rdb.Client, RateLimiterConfig{
		MaxRequests: maxRequests,
		Window:      window,
	})
	return rl, rdb
}

func limitedRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(rl.Middleware())
	router.POST("/graphql", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": nil})
	})
	return router
}

func sendFrom(router *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_AllowsRequestsUnderLimit(t *testing.T) {
	rl, _ := setupTestRateLimiter(t, 5, time.Minute)
	router := limitedRouter(rl)

	for i := 0; i < 5; i++ {
		w := sendFrom(router, "192.168.1.1")
		assert.Equal(t, http.StatusOK, w.Code, "Request %d should succeed", i+1)
	}
}

func TestRateLimiter_BlocksRequestsOverLimit(t *testing.T) {
	rl, _ := setupTestRateLimiter(t, 5, time.Minute)
	router := limitedRouter(rl)

	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusOK, sendFrom(router, "192.168.1.1").Code)
	}

	w := sendFrom(router, "192.168.1.1")

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")

	retryAfter, err := strconv.Atoi(w.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.Greater(t, retryAfter, 0)
	assert.LessOrEqual(t, retryAfter, 60)
}

func TestRateLimiter_DifferentIPsIndependent(t *testing.T) {
	rl, _ := setupTestRateLimiter(t, 3, time.Minute)
	router := limitedRouter(rl)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, sendFrom(router, "192.168.1.1").Code, "IP1 request %d", i+1)
	}
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, sendFrom(router, "192.168.1.2").Code, "IP2 request %d", i+1)
	}

	assert.Equal(t, http.StatusTooManyRequests, sendFrom(router, "192.168.1.1").Code)
}

func TestRateLimiter_CheckLimit(t *testing.T) {
	rl, _ := setupTestRateLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, _, err := rl.CheckLimit(ctx, "192.168.1.100")
		require.NoError(t, err)
		assert.True(t, allowed, "Request %d should be allowed", i+1)
	}

	allowed, retryAfter, err := rl.CheckLimit(ctx, "192.168.1.100")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))
}

func TestRateLimiter_WindowExpiry(t *testing.T) {
	rl, rdb := setupTestRateLimiter(t, 2, time.Second)
	ctx := context.Background()
	ip := "192.168.1.100"

	for i := 0; i < 2; i++ {
		allowed, _, err := rl.CheckLimit(ctx, ip)
		require.NoError(t, err)
		require.True(t, allowed)
	}

	allowed, _, err := rl.CheckLimit(ctx, ip)
	require.NoError(t, err)
	assert.False(t, allowed)

	rdb.Server.FastForward(2 * time.Second)

	allowed, _, err = rl.CheckLimit(ctx, ip)
	require.NoError(t, err)
	assert.True(t, allowed, "Request should be allowed after window expires")
}

func TestRateLimiter_CounterWithoutExpiryRecovers(t *testing.T) {
	rl, rdb := setupTestRateLimiter(t, 2, time.Minute)
	ctx := context.Background()
	ip := "192.168.1.101"

	// a counter left behind with no TTL
	require.NoError(t, rdb.Server.Set("ratelimit:"+ip, "50"))

	allowed, retryAfter, err := rl.CheckLimit(ctx, ip)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, time.Minute, retryAfter)
	assert.Equal(t, time.Minute, rdb.Server.TTL("ratelimit:"+ip))

	rdb.Server.FastForward(2 * time.Minute)

	allowed, _, err = rl.CheckLimit(ctx, ip)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimiter_WindowAnchoredAtFirstRequest(t *testing.T) {
	rl, rdb := setupTestRateLimiter(t, 5, time.Minute)
	ctx := context.Background()
	ip := "192.168.1.102"

	_, _, err := rl.CheckLimit(ctx, ip)
	require.NoError(t, err)
	rdb.Server.FastForward(40 * time.Second)

	_, _, err = rl.CheckLimit(ctx, ip)
	require.NoError(t, err)
	assert.Equal(t, 20*time.Second, rdb.Server.TTL("ratelimit:"+ip))
}

func TestRateLimiter_ExactBudget(t *testing.T) {
	rl, _ := setupTestRateLimiter(t, 10, time.Minute)
	router := limitedRouter(rl)

	successCount := 0
	rateLimitedCount := 0
	for i := 0; i < 20; i++ {
		switch sendFrom(router, "192.168.1.1").Code {
		case http.StatusOK:
			successCount++
		case http.StatusTooManyRequests:
			rateLimitedCount++
		}
	}

	assert.Equal(t, 10, successCount)
	assert.Equal(t, 10, rateLimitedCount)
}

func TestRateLimiter_FailsOpenWhenRedisIsDown(t *testing.T) {
	rl, rdb := setupTestRateLimiter(t, 1, time.Minute)
	router := limitedRouter(rl)
	rdb.Server.Close()

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, sendFrom(router, "192.168.1.1").Code)
	}
}

func TestRateLimiter_DisabledWithoutRedis(t *testing.T) {
	router := limitedRouter(NewRateLimiter(nil, RateLimiterConfig{MaxRequests: 1, Window: time.Minute}))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, sendFrom(router, "192.168.1.1").Code)
	}
}

func BenchmarkRateLimiter_CheckLimit(b *testing.B) {
	rl, _ := setupTestRateLimiter(b, 1000000, time.Minute)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = rl.CheckLimit(ctx, "192.168.1.100")
	}
}

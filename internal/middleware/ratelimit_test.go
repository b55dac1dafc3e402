package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedRouter(rdb *redis.Client, limit int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/requests", RateLimit(rdb, "intake", limit, time.Minute), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func hit(router *gin.Engine) int {
	req := httptest.NewRequest(http.MethodPost, "/requests", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitAllowsUnderLimit(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	router := newLimitedRouter(rdb, 3)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(router))
	}
}

func TestRateLimitBlocksOverLimit(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	router := newLimitedRouter(rdb, 2)

	assert.Equal(t, http.StatusOK, hit(router))
	assert.Equal(t, http.StatusOK, hit(router))
	assert.Equal(t, http.StatusTooManyRequests, hit(router))
}

func TestRateLimitResetsAfterWindow(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	router := newLimitedRouter(rdb, 1)

	assert.Equal(t, http.StatusOK, hit(router))
	assert.Equal(t, http.StatusTooManyRequests, hit(router))

	mr.FastForward(2 * time.Minute)

	assert.Equal(t, http.StatusOK, hit(router))
}

func TestRateLimitFailsOpenWithoutRedis(t *testing.T) {
	router := newLimitedRouter(nil, 1)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hit(router))
	}
}

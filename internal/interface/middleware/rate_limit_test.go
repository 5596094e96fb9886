package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/social-feed/pkg/helpers"
)

func TestRateLimit_PerIPAndPath(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := helpers.NewRedisClient(mr.Addr(), "", 0)

	r := gin.New()
	r.Use(RealIP())
	rl := RateLimit(rdb, 2, time.Minute, KeyByIPAndPath(), nil)
	r.POST("/login", rl, func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/register", rl, func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(path, ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set("X-Forwarded-For", ip)
		return do(r, req)
	}

	assert.Equal(t, http.StatusOK, hit("/login", "203.0.113.7").Code)
	assert.Equal(t, http.StatusOK, hit("/login", "203.0.113.7").Code)
	w := hit("/login", "203.0.113.7")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, hit("/register", "203.0.113.7").Code)
	assert.Equal(t, http.StatusOK, hit("/login", "198.51.100.1").Code)

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, hit("/login", "203.0.113.7").Code)
}

func TestRateLimit_DisabledWithoutRedis(t *testing.T) {
	r := gin.New()
	r.GET("/x", RateLimit(nil, 1, time.Minute, KeyByIPAndPath(), nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
	}
}

func TestRateLimit_FailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := helpers.NewRedisClient(mr.Addr(), "", 0)
	mr.Close()

	r := gin.New()
	r.GET("/x", RateLimit(rdb, 1, time.Minute, KeyByIPAndPath(), nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusOK, do(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
	assert.Equal(t, http.StatusOK, do(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
}

func TestPrivateIPOnlyAndRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware(), RealIP())
	r.GET("/debug", PrivateIPOnly(), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/debug", nil)
	req.Header.Set("X-Forwarded-For", "10.1.2.3")
	w := do(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/debug", nil)
	req.Header.Set("X-Forwarded-For", "8.8.8.8")
	req.Header.Set("X-Request-ID", "6f1c9a8e-3c1b-4c55-9a43-0d8c9a1e2f3b")
	w = do(r, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "6f1c9a8e-3c1b-4c55-9a43-0d8c9a1e2f3b", w.Header().Get("X-Request-ID"))
}

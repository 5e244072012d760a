package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"ddd-kernel/config"
	"ddd-kernel/infrastructure/persistence"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	return r
}

func TestRequestIDPropagation(t *testing.T) {
	r := newEngine(RequestIDMiddleware(), LoggingMiddleware())
	var seen string
	r.GET("/ping", func(c *gin.Context) {
		seen = persistence.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-42", seen)
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, w.Header().Get(RequestIDHeader), seen)
}

func TestRecoveryMiddleware(t *testing.T) {
	r := newEngine(RequestIDMiddleware(), RecoveryMiddleware())
	r.GET("/panic", func(c *gin.Context) {
		panic("handler exploded")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestRateLimitMiddleware(t *testing.T) {
	r := newEngine(RateLimitMiddleware(&config.RateLimitConfig{Enabled: true, Rate: 0.001, Burst: 2}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimitDisabled(t *testing.T) {
	r := newEngine(RateLimitMiddleware(&config.RateLimitConfig{Enabled: false}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

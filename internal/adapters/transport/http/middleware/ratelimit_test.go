package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/veloxcart/ecommerce-api/internal/infra/ratelimit"
)

func TestRateLimitPerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := ratelimit.NewKeyed(rate.Every(time.Hour), 1, 16, time.Hour)
	router := gin.New()
	router.Use(RateLimitPerIP(limiter))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(ip string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/x", nil)
		req.Header.Set("X-Forwarded-For", ip)
		router.ServeHTTP(w, req)
		return w
	}

	require.Equal(t, http.StatusOK, do("203.0.113.7").Code)

	limited := do("203.0.113.7")
	require.Equal(t, http.StatusTooManyRequests, limited.Code)
	require.NotEmpty(t, limited.Header().Get("Retry-After"))

	// Another address is unaffected.
	require.Equal(t, http.StatusOK, do("198.51.100.4").Code)
}

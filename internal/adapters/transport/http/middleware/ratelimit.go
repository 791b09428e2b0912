package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/veloxcart/ecommerce-api/internal/infra/ratelimit"
)

// RateLimitPerIP throttles a route group per client address. Denials carry a
// Retry-After header.
func RateLimitPerIP(limiter *ratelimit.Keyed) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := ClientIP(c.Request)
		allowed, retryAfter := limiter.Allow(ip)
		if !allowed {
			seconds := int(retryAfter.Seconds())
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/veloxcart/ecommerce-api/internal/adapters/geo"
	"github.com/veloxcart/ecommerce-api/internal/domain/catalogue/model"
	"github.com/veloxcart/ecommerce-api/internal/domain/catalogue/repo"
)

// IPGate rejects blocked addresses before any handler runs and records every
// passing request with its geolocation. The block check is on the hot path;
// log persistence and the geo lookup happen off it so a slow upstream never
// delays the response.
func IPGate(blocked repo.BlockedIPRepo, logs repo.RequestLogRepo, geoClient *geo.Client, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := ClientIP(c.Request)

		isBlocked, err := blocked.IsBlocked(c.Request.Context(), ip)
		if err != nil {
			// Fail open: an unreadable blocklist must not take the site down.
			log.Error("blocklist check", zap.String("ip", ip), zap.Error(err))
		}
		if isBlocked {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "your IP address is blocked"})
			return
		}

		path := c.Request.URL.Path
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			loc, err := geoClient.Lookup(ctx, ip)
			if err != nil {
				log.Warn("geolocation lookup", zap.String("ip", ip), zap.Error(err))
			}
			entry := model.RequestLog{
				IPAddress: ip,
				Path:      path,
				Country:   loc.Country,
				City:      loc.City,
				Timestamp: time.Now(),
			}
			if err := logs.Create(ctx, entry); err != nil {
				log.Error("persist request log", zap.String("ip", ip), zap.Error(err))
			}
		}()

		c.Next()
	}
}

package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/veloxcart/ecommerce-api/internal/adapters/geo"
	"github.com/veloxcart/ecommerce-api/internal/adapters/transport/http/handler"
	"github.com/veloxcart/ecommerce-api/internal/adapters/transport/http/middleware"
	authsvc "github.com/veloxcart/ecommerce-api/internal/app/auth/service"
	cataloguesvc "github.com/veloxcart/ecommerce-api/internal/app/catalogue/service"
	"github.com/veloxcart/ecommerce-api/internal/domain/catalogue/repo"
	"github.com/veloxcart/ecommerce-api/internal/infra/config"
	"github.com/veloxcart/ecommerce-api/internal/infra/ratelimit"
)

// Deps carries everything the router needs. The composition root builds it.
type Deps struct {
	Auth      authsvc.Service
	Catalogue cataloguesvc.Service
	Blocked   repo.BlockedIPRepo
	Logs      repo.RequestLogRepo
	Geo       *geo.Client
	Cfg       *config.Config
	Log       *zap.Logger
}

// NewRouter assembles the gin engine: recovery, request logging, the IP gate,
// CORS, a global per-IP limiter and the API routes.
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(d.Log))
	router.Use(middleware.IPGate(d.Blocked, d.Logs, d.Geo, d.Log))

	global := ratelimit.NewKeyed(rate.Limit(50), 100, 10_000, time.Hour)
	router.Use(middleware.RateLimitPerIP(global))

	router.Use(cors.New(cors.Config{
		AllowOrigins: d.Cfg.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept",
			"Authorization",
			"X-Requested-With",
		},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: d.Cfg.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
	})

	authRequired := middleware.RequireAuth(d.Auth)
	adminRequired := middleware.RequireAdmin()

	// Tight limiter shared by the resend and dry-run endpoints: one request
	// per minute per address, small burst.
	sensitive := ratelimit.NewKeyed(rate.Every(time.Minute), 3, 10_000, time.Hour)
	perIPLimit := middleware.RateLimitPerIP(sensitive)

	api := router.Group("/api")
	handler.NewAuthHandler(d.Auth, d.Cfg, d.Log).Register(api.Group("/auth"), authRequired, perIPLimit)
	handler.NewCatalogueHandler(d.Catalogue, d.Cfg, d.Log).Register(api, authRequired, adminRequired)

	return router
}

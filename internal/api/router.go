// Package api wires the HTTP routes.
package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonesrussell/sitepulse/internal/handlers"
	"github.com/jonesrussell/sitepulse/internal/logger"
)

const (
	corsMaxAgeHours = 12
)

// Handlers groups the route handlers the router mounts.
type Handlers struct {
	Sites       *handlers.SiteHandler
	Checks      *handlers.CheckHandler
	Analytics   *handlers.AnalyticsHandler
	History     *handlers.HistoryHandler
	Credentials *handlers.CredentialHandler
}

func NewRouter(h Handlers, corsOrigins []string, log logger.Logger) *gin.Engine {
	router := gin.New()

	// CORS middleware - must be first
	router.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Content-Length", "Accept-Encoding",
			"X-CSRF-Token", "Authorization", "accept", "origin",
			"Cache-Control", "X-Requested-With", "X-User-ID",
		},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           corsMaxAgeHours * time.Hour,
	}))

	// Middleware
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1, user-scoped
	v1 := router.Group("/api/v1")
	v1.Use(handlers.RequireUser())

	// Sites endpoints
	sites := v1.Group("/sites")
	sites.POST("", h.Sites.Create)
	sites.GET("", h.Sites.List)
	sites.GET("/metadata", h.Sites.Metadata)
	sites.GET("/:id", h.Sites.GetByID)
	sites.PUT("/:id", h.Sites.Update)
	sites.DELETE("/:id", h.Sites.Delete)

	// Check triggers
	sites.POST("/:id/checks/performance", h.Checks.RunPerformance)
	sites.POST("/:id/checks/certificate", h.Checks.RunCertificate)
	sites.POST("/:id/checks/deep-scan", h.Checks.RunDeepScan)
	sites.POST("/:id/uptime/sync", h.Checks.SyncUptime)
	sites.GET("/:id/uptime/status", h.Checks.UptimeStatus)

	// Persisted results
	sites.GET("/:id/reports", h.History.ReportGroups)
	sites.DELETE("/:id/reports/:groupId", h.History.DeleteReportGroup)
	sites.GET("/:id/certificates", h.History.Certificates)
	sites.GET("/:id/deep-scans", h.History.DeepScans)

	// Analytics
	sites.GET("/:id/analytics/performance/trend", h.Analytics.PerformanceTrend)
	sites.GET("/:id/analytics/performance/compare", h.Analytics.PerformanceCompare)
	sites.GET("/:id/analytics/uptime/trend", h.Analytics.UptimeTrend)
	sites.GET("/:id/analytics/uptime/compare", h.Analytics.UptimeCompare)

	// Credentials
	v1.PUT("/credentials/:service", h.Credentials.Put)
	v1.DELETE("/credentials/:service", h.Credentials.Delete)

	return router
}

func ginLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		log.Info("HTTP request",
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status_code", statusCode),
			logger.String("client_ip", c.ClientIP()),
			logger.Duration("duration", duration),
		)
	}
}

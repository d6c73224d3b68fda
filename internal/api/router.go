package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/northseawatch/scrubber-backend-go/internal/config"
	"github.com/northseawatch/scrubber-backend-go/internal/handler"
	"github.com/northseawatch/scrubber-backend-go/internal/middleware"
	"github.com/northseawatch/scrubber-backend-go/internal/observability"
)

// Handlers groups the HTTP handlers served by the router
type Handlers struct {
	Ship         *handler.ShipHandler
	Path         *handler.PathHandler
	Distribution *handler.DistributionHandler
	Discharge    *handler.DischargeHandler
	AnalysisTask *handler.AnalysisTaskHandler
	Port         *handler.PortHandler
}

// SetupRouter 设置路由. The returned limiter must be stopped on shutdown.
func SetupRouter(cfg *config.Config, h Handlers, metrics *observability.Collector) (*gin.Engine, *middleware.RateLimiter) {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	r := gin.New()

	var httpMetrics middleware.HTTPMetrics
	if metrics != nil {
		httpMetrics = metrics
	}
	r.Use(gin.Recovery(), middleware.Logger(httpMetrics))

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Scrubber discharge API is running",
		})
	})
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)

	// API 路由组
	v1 := r.Group("/api/v1", middleware.RateLimit(limiter))
	{
		v1.GET("/active-ships", h.Ship.ActiveShips)
		v1.GET("/scrubber-vessels", h.Ship.ScrubberVessels)
		v1.GET("/heatmap", h.Ship.Heatmap)
		v1.GET("/navigational-status", h.Ship.NavigationalStatuses)

		v1.GET("/ship-path/:imo", h.Path.ShipPath)
		v1.GET("/ship-trail/:imo", h.Path.ShipTrail)

		v1.GET("/past-scrubber-distribution", h.Distribution.PastDistribution)

		v1.POST("/discharge/estimate", h.Discharge.Estimate)
		v1.POST("/discharge/trail", h.Discharge.Trail)
		v1.POST("/density/aggregate", h.Discharge.Aggregate)

		v1.GET("/all-ports", h.Port.AllPorts)
		v1.GET("/ports", h.Port.AllPorts)
		v1.GET("/ports/:port", h.Port.GetPort)
		v1.GET("/port-content/:port/:country", h.Port.PortContent)
		v1.GET("/all-port-contents", h.Port.AllPortContents)
		v1.GET("/engine-data", h.Port.EngineData)
		v1.GET("/ais_data/icct_wfr_combined", h.Port.EngineData)
	}

	// 管理接口
	if cfg.UsingDefaultJWTSecret() {
		if gin.Mode() == gin.ReleaseMode {
			log.Printf("[Auth] JWT_SECRET not set, admin routes disabled in release mode")
			return r, limiter
		}
		log.Printf("[Auth] WARNING: JWT_SECRET not set, admin tokens use the built-in default secret")
	}
	admin := r.Group("/api/admin", middleware.JWTAuth(cfg.JWTSecret))
	{
		tasks := admin.Group("/analysis/tasks")
		{
			tasks.POST("", h.AnalysisTask.CreateTask)
			tasks.GET("", h.AnalysisTask.ListTasks)
			tasks.GET("/:id", h.AnalysisTask.GetTask)
			tasks.DELETE("/:id", h.AnalysisTask.CancelTask)
		}
	}

	return r, limiter
}

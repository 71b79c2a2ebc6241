package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"fault-service/internal/config"
	"fault-service/internal/http/middleware"
)

func NewRouter(handler *Handler, authMiddleware gin.HandlerFunc, env string, limits config.RateLimitConfig) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:    []string{"*"},
		ExposeHeaders:   []string{"Content-Type", "Content-Disposition"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	defaultLimit := middleware.RateLimit(
		middleware.NewRateLimiter(limits.DefaultPerDay, 24*time.Hour),
		middleware.NewRateLimiter(limits.DefaultPerHour, time.Hour),
	)
	writeLimit := middleware.RateLimit(middleware.NewRateLimiter(limits.WritePerMinute, time.Minute))
	exportLimit := middleware.RateLimit(middleware.NewRateLimiter(limits.ExportPerMinute, time.Minute))

	api := router.Group("/api/v1")
	{
		api.GET("/meta", defaultLimit, handler.meta)
		api.GET("/faults", defaultLimit, handler.listFaults)
		api.GET("/faults/:id", defaultLimit, handler.getFault)
		api.GET("/faults/:id/history", defaultLimit, handler.faultHistory)
		api.GET("/statistics", defaultLimit, handler.statistics)
		api.GET("/export", exportLimit, handler.download)
	}

	protected := api.Group("")
	protected.Use(writeLimit, authMiddleware)
	{
		protected.POST("/faults/parse", handler.parseFault)
		protected.POST("/faults", handler.createFault)
		protected.PUT("/faults/:id", handler.updateFault)
	}

	return router
}

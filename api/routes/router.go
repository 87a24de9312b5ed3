// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"boxoffice/internal/shared/config"
	"boxoffice/internal/shared/middleware"
	"boxoffice/internal/ticketing"
	"boxoffice/pkg/cache"
	"boxoffice/pkg/logger"
)

// Router holds all route dependencies
type Router struct {
	config       *config.Config
	controller   ticketing.Controller
	cacheService cache.Service
	log          *logger.Logger
}

// NewRouter creates a new router instance. cacheService may be nil when the
// availability cache is disabled.
func NewRouter(cfg *config.Config, controller ticketing.Controller, cacheService cache.Service, log *logger.Logger) *Router {
	return &Router{
		config:       cfg,
		controller:   controller,
		cacheService: cacheService,
		log:          log,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(r.log))

	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		ticketing.SetupTicketingRoutes(api, r.controller)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if r.cacheService != nil {
			if err := r.cacheService.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":    "unhealthy",
					"error":     err.Error(),
					"timestamp": time.Now(),
					"service":   "boxoffice",
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "boxoffice",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

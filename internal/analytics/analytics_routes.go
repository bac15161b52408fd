package analytics

import (
	"time"

	"go-hris-analytics/internal/middleware"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RouteConfig struct {
	JWTSecret string
	// Redis, when set, serializes snapshot refreshes across instances.
	Redis *redis.Client
	// Enforcer holds the role policy; nil uses middleware.NewEnforcer.
	Enforcer *casbin.Enforcer
}

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	cfg RouteConfig,
	logger *zap.Logger,
) error {
	enforcer := cfg.Enforcer
	if enforcer == nil {
		var err error
		if enforcer, err = middleware.NewEnforcer(); err != nil {
			return err
		}
	}

	r.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	r.Use(middleware.ContextLogger(logger))

	reports := r.Group("/reports", middleware.Authorize(enforcer, middleware.ResourceReports, middleware.ActionRead))
	{
		reports.GET("",
			middleware.RateLimitByIP(10, 20),
			handler.Catalog,
		)

		reports.GET("/:name",
			middleware.RateLimitByIP(5, 10),
			middleware.RateLimitByUser(5, 10),
			handler.Run,
		)

		// exports are rendered from scratch, keep them slower
		reports.GET("/:name/export",
			middleware.RateLimitByIP(1, 3),
			middleware.RateLimitByUser(1, 3),
			handler.Export,
		)
	}

	r.GET("/status",
		middleware.RateLimitByIP(5, 10),
		middleware.Authorize(enforcer, middleware.ResourceStatus, middleware.ActionRead),
		handler.Status,
	)

	r.POST("/snapshot/refresh",
		middleware.RateLimitByIP(0.2, 1),
		middleware.Authorize(enforcer, middleware.ResourceSnapshot, middleware.ActionRefresh),
		middleware.ExclusiveLock(cfg.Redis, "snapshot:refresh", 2*time.Minute, logger),
		handler.Refresh,
	)

	return nil
}

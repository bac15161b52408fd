package app

import (
	"net/http"

	"go-hris-analytics/internal/analytics"
	"go-hris-analytics/internal/config"
	"go-hris-analytics/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// BuildApp wires the report API into router. The returned func releases the
// connections it opened.
func BuildApp(router *gin.Engine, cfg *config.Config, logger *zap.Logger) (func(), error) {
	in, err := connectInfra(cfg, logger)
	if err != nil {
		return nil, err
	}

	svc := in.newAnalyticsService(cfg, nil)
	if err := registerRoutes(router, svc, cfg, in, logger); err != nil {
		in.close()
		return nil, err
	}

	return in.close, nil
}

func registerRoutes(router *gin.Engine, svc analytics.Service, cfg *config.Config, in *infra, logger *zap.Logger) error {
	router.Use(middleware.RequestID(), middleware.Metrics())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler := analytics.NewHandler(svc, logger)
	api := router.Group("/api/v1")
	return analytics.RegisterRoutes(api, handler, analytics.RouteConfig{
		JWTSecret: cfg.App.JWTSecret,
		Redis:     in.rdb,
	}, logger)
}

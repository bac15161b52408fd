package middleware

import (
	"strconv"
	"time"

	"go-hris-analytics/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request counts and latencies labelled by route template,
// so /reports/:name stays one series.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		metrics.RequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		metrics.RequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

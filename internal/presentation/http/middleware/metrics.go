package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/restaurant-pos-api/internal/infrastructure/metrics"
)

// MetricsMiddleware records request count and latency by route template.
// Unmatched routes are grouped under "unmatched" to keep label cardinality bounded.
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskforge/task-manager-api/internal/metrics"
)

// Metrics records request counts and latencies per route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		metrics.HTTPRequestsTotal.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Inc()
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route).
			Observe(time.Since(start).Seconds())
	}
}

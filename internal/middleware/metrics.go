package middleware

import (
	"strconv"
	"time"

	"github.com/collabhub/collabhub-api/internal/telemetry"
	"github.com/gin-gonic/gin"
)

// Metrics records request count and latency by route template. Unmatched
// routes share one label value.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "<no-route>"
		}
		method := c.Request.Method

		telemetry.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		telemetry.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

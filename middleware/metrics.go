package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/crm_workload/metrics"
)

// Metrics 按路由模板统计请求数与耗时，未匹配的路由归为 "unmatched"
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.RecordHTTPRequest(
			endpoint,
			c.Request.Method,
			strconv.Itoa(c.Writer.Status()),
			float64(time.Since(start).Microseconds())/1000,
		)
	}
}

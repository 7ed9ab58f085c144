package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uniexpo/symposium-api/internal/metrics"
)

// RecordMetrics observes every request's route, method, status and latency.
// The route template is used rather than the raw path so path parameters
// do not explode the label cardinality.
func RecordMetrics() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		ctx.Next()

		endpoint := ctx.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		metrics.RecordHTTPRequest(
			endpoint,
			ctx.Request.Method,
			strconv.Itoa(ctx.Writer.Status()),
			float64(time.Since(start).Milliseconds()),
		)
	}
}

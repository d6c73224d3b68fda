package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request id
const RequestIDHeader = "X-Request-ID"

// HTTPMetrics records handled requests; *observability.Collector satisfies it
type HTTPMetrics interface {
	ObserveHTTP(method, route string, status int, d time.Duration)
}

// Logger middleware logs HTTP requests, tags them with a request id and
// records them in m when given
func Logger(m HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Start timer
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		// Process request
		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()
		if m != nil {
			m.ObserveHTTP(c.Request.Method, c.FullPath(), statusCode, latency)
		}

		if raw != "" {
			path = path + "?" + raw
		}

		log.Printf("[%s] %s %s %d %v rid=%s %s",
			c.Request.Method,
			path,
			c.ClientIP(),
			statusCode,
			latency,
			requestID,
			c.Errors.String(),
		)
	}
}

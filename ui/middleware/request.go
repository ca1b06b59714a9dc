package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"featurecard/domain/core"
	"featurecard/internal"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// RequestID tags every request with an id, reusing the caller's when given
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = core.NewRequestID().String()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID returns the id set by RequestID, if any.
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// AccessLog logs one line per request at Debug, or at Warn for server errors
func AccessLog(logger *internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		format := "%s %s %d %s (request %s)"
		args := []interface{}{c.Request.Method, c.Request.URL.Path, status, time.Since(start), GetRequestID(c)}
		if status >= 500 {
			logger.Warn(format, args...)
			return
		}
		logger.Debug(format, args...)
	}
}

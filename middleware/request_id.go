package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the gin context key the request ID is stored under. The
// logger package reads the same key when building error log entries.
const RequestIDKey = "request_id"

const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware tags every request with a correlation ID. An inbound
// X-Request-ID from a proxy is reused only when it is a well-formed UUID;
// anything else is replaced so callers cannot inject arbitrary strings into
// the logs.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)
		c.Header(requestIDHeader, requestID)

		c.Next()
	}
}

// RequestID returns the correlation ID assigned to this request, or an empty
// string when the middleware did not run.
func RequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"boxoffice/pkg/logger"
)

const requestIDHeader = "X-Request-ID"

// RequestID attaches a request id to every request, generating one when the
// client did not supply it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// RequestLogger logs every completed request with its duration and status.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		reqLog := log
		if requestID, exists := c.Get("request_id"); exists {
			if id, ok := requestID.(string); ok {
				reqLog = log.WithRequestID(id)
			}
		}
		reqLog.LogHTTPRequest(c, time.Since(start))
	}
}

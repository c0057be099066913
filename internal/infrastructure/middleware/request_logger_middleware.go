package middleware

import (
	"time"

	"mediagate/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RequestLoggerMiddleware logs every HTTP request with its status and timing.
func RequestLoggerMiddleware(log *logger.ContextLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.LogRequest(c.Request.Context(), c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start).Milliseconds())
	}
}

package middleware

import (
	"math"
	"net/http"
	"strconv"

	"mediagate/internal/core/services"

	"github.com/gin-gonic/gin"
)

// NewClassRateLimitMiddleware enforces the fixed-window budget of one
// endpoint class, keyed by caller IP. Each class is an independent counter
// space.
func NewClassRateLimitMiddleware(limiter services.RateLimiter, class string) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, err := limiter.Check(c.Request.Context(), class, clientIP(c.Request))
		if err != nil {
			// The limiter failing is an internal fault; don't lock callers out.
			c.Next()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		if !decision.Allowed {
			retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": retryAfter,
			})
			return
		}
		c.Next()
	}
}

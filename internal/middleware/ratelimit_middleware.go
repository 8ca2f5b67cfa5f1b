// internal/middleware/ratelimit_middleware.go
package middleware

import (
	"net/http"
	"time"

	"humanizer-service/internal/pkg/ratelimit"
	"humanizer-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimit caps authenticated requests on one endpoint to maxRequests per
// window. MUST be used after Auth(). Limiter outages fail open.
func RateLimit(limiter *ratelimit.Limiter, logger *zap.Logger, endpoint string, maxRequests int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			response.Error(c, http.StatusUnauthorized, "authentication required", nil)
			return
		}

		allowed, err := limiter.CheckAPIRateLimit(c.Request.Context(), userID, endpoint, maxRequests, window)
		if err != nil {
			logger.Error("rate limiter unavailable",
				zap.String("endpoint", endpoint),
				zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			response.Error(c, http.StatusTooManyRequests, "rate limit exceeded, try again later", nil)
			return
		}

		c.Next()
	}
}

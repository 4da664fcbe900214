package middleware

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appErrors "github.com/Shreekavinmr/masterminds-backend/pkg/errors"
	"github.com/Shreekavinmr/masterminds-backend/pkg/ratelimit"
	"github.com/Shreekavinmr/masterminds-backend/pkg/response"
)

type rateLimitRecorder interface {
	RecordRateLimited(scope string)
}

// RateLimit throttles requests per client IP under scope. A nil limiter disables it.
func RateLimit(limiter *ratelimit.Limiter, scope string, recorder rateLimitRecorder, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		decision, err := limiter.Allow(c.Request.Context(), scope, c.ClientIP())
		if err != nil {
			logger.Warn("rate limiter unavailable, admitting request", zap.String("scope", scope), zap.Error(err))
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		if !decision.Allowed {
			if recorder != nil {
				recorder.RecordRateLimited(scope)
			}
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(decision.RetryAfter.Seconds()))))
			response.Abort(c, appErrors.ErrRateLimited)
			return
		}
		c.Next()
	}
}

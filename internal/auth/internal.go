package auth

import (
	"crypto/subtle"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InternalSecretHeader carries the secret shared with the auth service.
const InternalSecretHeader = "X-Internal-Secret"

// InternalSecret guards service-to-service routes. Clients that keep sending
// a wrong secret are locked out by limiter; a nil limiter disables lockout.
// An empty secret rejects every request.
func InternalSecret(secret string, limiter *RateLimiter, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	expected := []byte(secret)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		if limiter != nil {
			if allowed, retryAfter := limiter.Allow(ip); !allowed {
				c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
					"error": "too many failed attempts",
					"code":  "rate_limited",
				})
				return
			}
		}

		given := []byte(c.GetHeader(InternalSecretHeader))
		if len(expected) == 0 || subtle.ConstantTimeCompare(given, expected) != 1 {
			if limiter != nil {
				if locked, _ := limiter.RecordFailure(ip); locked {
					logger.Warn("internal API locked for client", zap.String("ip", ip))
				}
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "invalid internal secret",
				"code":  "forbidden",
			})
			return
		}

		if limiter != nil {
			limiter.RecordSuccess(ip)
		}
		c.Set(ContextKeyAuthType, AuthTypeInternal)
		c.Next()
	}
}

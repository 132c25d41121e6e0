package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mattleonard16/ridecomparsion-sub001/internal/ratelimit"
)

// RateLimitMiddleware applies tiered admission control before any expensive
// work begins. A rejection is an explicit decision with a reason and reset
// time, not an error.
func RateLimitMiddleware(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := clientIdentity(c)
		decision := limiter.Check(identity)

		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Header("X-RateLimit-Reset", decision.ResetAt.UTC().Format(http.TimeFormat))

		if !decision.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":    "rate limit exceeded",
				"reason":   decision.Reason,
				"reset_at": decision.ResetAt.UTC(),
			})
			return
		}
		c.Next()
	}
}

// clientIdentity prefers the first forwarded IP, falling back to a
// fingerprint hashed from user-agent and accept-language.
func clientIdentity(c *gin.Context) string {
	forwarded := c.GetHeader("X-Forwarded-For")
	if forwarded != "" {
		if idx := strings.IndexByte(forwarded, ','); idx >= 0 {
			forwarded = forwarded[:idx]
		}
		forwarded = strings.TrimSpace(forwarded)
	}
	return ratelimit.Fingerprint(forwarded, c.GetHeader("User-Agent"), c.GetHeader("Accept-Language"))
}

package middleware

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/RainParade/rain-parade-backend/errors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// APIRateLimiter creates a rate limiter middleware for the public API.
// It uses Redis for distributed rate limiting keyed by client IP.
// The limiter uses a sliding window approach with Redis INCR and EXPIRE commands.
func APIRateLimiter(redisClient redis.UniversalClient, requestsPerMinute int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := getClientIP(c)

		key := fmt.Sprintf("ratelimit:api:%s", ip)

		// Use pipeline for atomic operations
		pipe := redisClient.TxPipeline()
		incr := pipe.Incr(c.Request.Context(), key)
		pipe.Expire(c.Request.Context(), key, window)

		_, err := pipe.Exec(c.Request.Context())
		if err != nil {
			// Log error but don't block the request on Redis failures
			// This ensures the API remains available even if Redis is down
			c.Next()
			return
		}

		count := incr.Val()

		if count > int64(requestsPerMinute) {
			// Get TTL for retry-after header
			ttl, err := redisClient.TTL(c.Request.Context(), key).Result()
			if err != nil || ttl < 0 {
				ttl = window
			}

			c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", requestsPerMinute))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(ttl).Unix()))
			c.Header("Retry-After", fmt.Sprintf("%d", int(ttl.Seconds())))

			_ = c.Error(apperrors.RateLimitExceeded("Too many requests. Please try again later.", int(ttl.Seconds())))
			c.Abort()
			return
		}

		remaining := requestsPerMinute - int(count)
		if remaining < 0 {
			remaining = 0
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", requestsPerMinute))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(window).Unix()))

		c.Next()
	}
}

// getClientIP extracts the real client IP from the request.
// It checks X-Forwarded-For and X-Real-IP headers first (for proxies/load balancers),
// then falls back to RemoteAddr.
func getClientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		return realIP
	}

	return c.ClientIP()
}

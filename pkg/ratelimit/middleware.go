package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"boxoffice/internal/shared/utils/response"
	"boxoffice/pkg/logger"
)

// Middleware enforces the budget of the route class. A Redis failure lets
// the request through.
func Middleware(rateLimiter *RateLimiter, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := getClientIP(c)
		limitType := getRateLimitType(c.Request.Method, c.Request.URL.Path)

		result, err := rateLimiter.IsAllowed(c.Request.Context(), clientIP, limitType)
		if err != nil {
			log.WarnContext(c.Request.Context(), "Rate limit check failed", "error", err.Error())
			c.Next()
			return
		}

		// Set rate limit headers
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetTime))

		if !result.Allowed {
			log.LogRateLimitExceeded(c.Request.Context(), clientIP, c.Request.URL.Path)
			if strings.Contains(c.GetHeader("Accept"), "application/json") {
				response.RespondJSON(c, "error", http.StatusTooManyRequests,
					"Rate limit exceeded", nil, map[string]interface{}{
						"limit":      result.Limit,
						"reset_time": result.ResetTime,
					})
			} else {
				response.RespondHTML(c, http.StatusTooManyRequests, "Too Many Requests",
					"You are going too fast. Please wait a moment and try again.")
			}
			c.Abort()
			return
		}

		c.Next()
	}
}

// getRateLimitType maps a site path to its budget
func getRateLimitType(method, path string) RateLimitType {
	switch {
	case strings.HasPrefix(path, "/health"),
		strings.HasPrefix(path, "/ping"):
		return RateLimitTypeHealth

	// Credential endpoints: only submissions count against the tight budget
	case method == http.MethodPost && (strings.HasPrefix(path, "/login") ||
		strings.HasPrefix(path, "/register")):
		return RateLimitTypeAuth

	case strings.HasPrefix(path, "/book-event"),
		strings.HasPrefix(path, "/order-confirmation"):
		return RateLimitTypeBooking

	case path == "/",
		strings.HasPrefix(path, "/event/"),
		strings.HasPrefix(path, "/static/"):
		return RateLimitTypePublic

	default:
		return RateLimitTypeDefault
	}
}

// extracts real client IP
func getClientIP(c *gin.Context) string {
	// Check X-Forwarded-For header
	xForwardedFor := c.GetHeader("X-Forwarded-For")
	if xForwardedFor != "" {
		ips := strings.Split(xForwardedFor, ",")
		if len(ips) > 0 {
			ip := strings.TrimSpace(ips[0])
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}

	// Check X-Real-IP header
	xRealIP := c.GetHeader("X-Real-IP")
	if xRealIP != "" {
		if net.ParseIP(xRealIP) != nil {
			return xRealIP
		}
	}

	// Fall back to RemoteAddr
	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}

	return ip
}

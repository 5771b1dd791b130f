package router

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/solmercado/tienda-api/internal/http/response"
)

// RateLimitKeyFunc derives the limiting key from a request.
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule is one fixed-window rule.
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
}

var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("TTL", KEYS[1])
return {current, ttl}
`)

// RateLimitMiddleware applies a Redis fixed-window counter. Without a Redis
// client the middleware is a pass-through.
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || rule.WindowSeconds <= 0 || rule.MaxRequests <= 0 {
			c.Next()
			return
		}

		key := ""
		if keyFunc != nil {
			key = strings.TrimSpace(keyFunc(c))
		}
		if key == "" {
			key = c.ClientIP()
		}
		if rule.Prefix != "" {
			key = fmt.Sprintf("%s:%s", rule.Prefix, key)
		}

		result, err := rateLimitScript.Run(c.Request.Context(), client, []string{key}, rule.WindowSeconds).Result()
		if err != nil {
			response.Internal(c, "límite de peticiones no disponible")
			c.Abort()
			return
		}
		values, ok := result.([]interface{})
		if !ok || len(values) < 2 {
			response.Internal(c, "límite de peticiones no disponible")
			c.Abort()
			return
		}

		current, _ := values[0].(int64)
		ttl, _ := values[1].(int64)
		if ttl > 0 {
			c.Writer.Header().Set("Retry-After", strconv.FormatInt(ttl, 10))
		}
		if current > int64(rule.MaxRequests) {
			response.Error(c, response.CodeTooManyRequests, "demasiadas peticiones")
			c.Abort()
			return
		}
		c.Next()
	}
}

package middlewares

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// WindowCounter counts hits per key within a fixed window. Implemented
// by cache.Counter.
type WindowCounter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimitMiddleware rejects a client with 429 once it exceeds limit
// requests per window on a path. Counter failures let the request
// through; limiting is protection, not a dependency.
func RateLimitMiddleware(counter WindowCounter, limit int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("%s:%s", c.ClientIP(), c.FullPath())
		n, err := counter.Incr(c.Request.Context(), key, window)
		if err != nil {
			log.Printf("Rate limiter unavailable: %v", err)
			c.Next()
			return
		}
		if n > limit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}

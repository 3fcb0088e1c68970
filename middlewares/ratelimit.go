package middlewares

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskhero/internal/ratelimit"
)

// RateLimitMiddleware throttles the wrapped routes per user. Redis
// being down fails open: a broken limiter must not block the app.
func RateLimitMiddleware(limiter *ratelimit.Limiter, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get("userID")
		if !exists {
			c.Next()
			return
		}
		userID, ok := v.(primitive.ObjectID)
		if !ok {
			c.Next()
			return
		}

		allowed, err := limiter.Allow(c.Request.Context(), userID.Hex(), action)
		if err != nil {
			log.Printf("ratelimit: check failed for %s: %v", action, err)
			c.Next()
			return
		}
		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, slow down"})
			c.Abort()
			return
		}
		c.Next()
	}
}

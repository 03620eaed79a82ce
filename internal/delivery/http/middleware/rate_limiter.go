package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/himanshu8github/Neetcode/internal/domain"
)

// windowEntry tracks request counts per time window.
type windowEntry struct {
	count     int
	timestamp time.Time
}

// RateLimiter limits each caller to maxRequests per minute. Callers are keyed
// by session user when RequireSession ran first, otherwise by client IP.
// The stale-entry sweeper stops when ctx is done.
func RateLimiter(ctx context.Context, maxRequests int) gin.HandlerFunc {
	var mu sync.Mutex
	clients := make(map[string]*windowEntry)

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			mu.Lock()
			now := time.Now()
			for key, entry := range clients {
				if now.Sub(entry.timestamp) > 2*time.Minute {
					delete(clients, key)
				}
			}
			mu.Unlock()
		}
	}()

	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if s, ok := Session(c); ok {
			key = "user:" + s.UserID.String()
		}

		mu.Lock()
		entry, exists := clients[key]
		now := time.Now()

		if !exists || now.Sub(entry.timestamp) > time.Minute {
			clients[key] = &windowEntry{count: 1, timestamp: now}
			mu.Unlock()
			c.Next()
			return
		}

		if entry.count >= maxRequests {
			retryAfter := time.Minute - now.Sub(entry.timestamp)
			mu.Unlock()
			c.Header("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": fmt.Sprintf("%s: maximum %d requests per minute", domain.ErrRateLimitExceeded, maxRequests),
			})
			return
		}

		entry.count++
		mu.Unlock()
		c.Next()
	}
}

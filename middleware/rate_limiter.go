package middleware

import (
	"net/http"
	"sync"
	"time"

	"nutrilog/config"
	"nutrilog/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultRequestsPerMin = 120

// rateLimiterStore keeps one token bucket per client key.
type rateLimiterStore struct {
	limiters map[string]*rate.Limiter
	perMin   int
	mu       sync.Mutex
}

func newRateLimiterStore(perMin int) *rateLimiterStore {
	if perMin <= 0 {
		perMin = defaultRequestsPerMin
	}
	return &rateLimiterStore{limiters: make(map[string]*rate.Limiter), perMin: perMin}
}

func (s *rateLimiterStore) getLimiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[key]
	if !exists {
		// Refill perMin tokens a minute; a full minute's worth may be spent at once.
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMin)), s.perMin)
		s.limiters[key] = limiter
	}
	return limiter
}

// RateLimitMiddleware limits requests per authenticated user, falling back
// to the client IP when no user is set.
func RateLimitMiddleware() gin.HandlerFunc {
	return rateLimit(newRateLimiterStore(config.AppConfig.MaxRequestsPerMin))
}

func rateLimit(store *rateLimiterStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + getClientIP(c)
		if userID := c.GetString("userID"); userID != "" {
			key = "user:" + userID
		}
		if !store.getLimiter(key).Allow() {
			utils.GetLogger().Warn("Rate limit exceeded", zap.String("client", key))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}

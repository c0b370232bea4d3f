package utils

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Mongo     bool      `json:"mongo"`
	Redis     []bool    `json:"redis"`
	CheckedAt time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

func checkHealth(ctx context.Context, redisClients []*redis.Client, mongoClient *mongo.Client) {
	var redisHealth []bool
	for _, client := range redisClients {
		err := client.Ping(ctx).Err()
		redisHealth = append(redisHealth, err == nil)
	}

	mongoHealthy := mongoClient.Ping(ctx, nil) == nil

	mu.Lock()
	currentHealth = HealthStatus{
		Mongo:     mongoHealthy,
		Redis:     redisHealth,
		CheckedAt: time.Now(),
	}
	mu.Unlock()
}

// StartHealthMonitor performs periodic health checks until ctx is cancelled.
func StartHealthMonitor(ctx context.Context, redisClients []*redis.Client, mongoClient *mongo.Client) {
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		checkHealth(ctx, redisClients, mongoClient)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				checkHealth(ctx, redisClients, mongoClient)
			}
		}
	}()
}

// HealthHandler serves the latest health snapshot.
func HealthHandler(c *gin.Context) {
	status := GetHealthStatus()
	code := http.StatusOK
	if !status.Mongo {
		code = http.StatusServiceUnavailable
	}
	for _, ok := range status.Redis {
		if !ok {
			code = http.StatusServiceUnavailable
		}
	}
	c.JSON(code, status)
}

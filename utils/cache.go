package utils

import (
	"context"
	"log"
	"time"

	"nutrilog/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient is the generic cache client (parser settings).
	CacheClient *redis.Client
	// DraftClient holds import drafts and edit history, both with a TTL.
	DraftClient *redis.Client
)

func newRedisClient(db int, name string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (%s): %v", name, err)
	}
	return client
}

// InitCache initializes the generic Redis cache client.
func InitCache() {
	CacheClient = newRedisClient(config.AppConfig.RedisCacheDB, "Cache")
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitDraftCache initializes the Redis client for drafts and history.
func InitDraftCache() {
	DraftClient = newRedisClient(config.AppConfig.RedisDraftDB, "Drafts")
}

func GetDraftClient() *redis.Client {
	if DraftClient == nil {
		InitDraftCache()
	}
	return DraftClient
}

// InitRedis connects every Redis client used by the API.
func InitRedis() {
	InitCache()
	InitDraftCache()
}

// RedisClients returns the initialized clients for health checks.
func RedisClients() []*redis.Client {
	return []*redis.Client{GetCacheClient(), GetDraftClient()}
}

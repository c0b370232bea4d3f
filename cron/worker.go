package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"nutrilog/config"
	"nutrilog/models"
	"nutrilog/services/notification"
	"nutrilog/services/tasks"
	"nutrilog/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RedisOpt is the asynq connection shared by the API (client) and the worker.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewMux routes queued tasks to their handlers.
func NewMux(notifSvc notification.NotificationService) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeDietAssigned, HandleDietAssignedTask(notifSvc))
	return mux
}

// InitNotificationWorker runs the async worker in background. The returned
// server must be shut down by the caller.
func InitNotificationWorker(ctx context.Context, notifSvc notification.NotificationService) *asynq.Server {
	logger := utils.GetLogger()

	concurrency := config.AppConfig.WorkerConcurrency
	if concurrency <= 0 {
		concurrency = 5
	}
	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)
	mux := NewMux(notifSvc)

	go monitorRedisConnection(ctx)

	go func() {
		logger.Info("notification worker starting")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Warn("notification worker failed to start",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Fatal("notification worker: max retry attempts reached")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

func HandleDietAssignedTask(notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.DietAssignedPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			// a malformed payload will never succeed
			return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry)
		}
		if p.UserID == "" || p.DietID == "" {
			return fmt.Errorf("payload missing user or diet id: %w", asynq.SkipRetry)
		}
		return notifSvc.NotifyDietAssigned(ctx, p)
	}
}

// monitorRedisConnection pings the queue database until ctx is done.
func monitorRedisConnection(ctx context.Context) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil {
				utils.GetLogger().Warn("queue redis connection lost", zap.Error(err))
			}
		}
	}
}

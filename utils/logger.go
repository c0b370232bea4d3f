package utils

import (
	"log"
	"sync"
	"time"

	"nutrilog/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Logger     *zap.Logger
	loggerOnce sync.Once
)

// InitializeLogger builds the global logger: JSON at info level in
// production, colored console at debug level elsewhere. LOG_LEVEL overrides
// the level in both.
func InitializeLogger() {
	var cfg zap.Config
	if config.IsProduction() {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if lvl, err := zapcore.ParseLevel(config.AppConfig.LogLevel); err == nil && config.AppConfig.LogLevel != "" {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	built, err := cfg.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	Logger = built
}

func GetLogger() *zap.Logger {
	loggerOnce.Do(func() {
		if Logger == nil {
			InitializeLogger()
		}
	})
	return Logger
}

// RequestLogger tags each request with an id, stores a child logger under
// "logger" for handlers, and logs the outcome once the request finishes.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header("X-Request-ID", requestID)

		reqLogger := GetLogger().With(zap.String("requestId", requestID))
		c.Set("logger", reqLogger)
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if userID := c.GetString("userID"); userID != "" {
			fields = append(fields, zap.String("userId", userID))
		}
		switch status := c.Writer.Status(); {
		case status >= 500:
			reqLogger.Error("request failed", fields...)
		case status >= 400:
			reqLogger.Warn("request rejected", fields...)
		default:
			reqLogger.Info("request served", fields...)
		}
	}
}

package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisDraftDB  int    `mapstructure:"REDIS_DRAFT_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Firebase / Cloud Storage.
	FirebaseCredentialsPath string `mapstructure:"FIREBASE_CREDENTIALS_PATH"`
	FirebaseBucketName      string `mapstructure:"FIREBASE_BUCKET_NAME"`

	// Import pipeline.
	DraftTTLMinutes   int `mapstructure:"DRAFT_TTL_MINUTES"`
	HistoryTTLHours   int `mapstructure:"HISTORY_TTL_HOURS"`
	MaxUploadSizeMB   int `mapstructure:"MAX_UPLOAD_SIZE_MB"`
	DefaultSkipRows   int `mapstructure:"DEFAULT_SKIP_ROWS"`
	MaxSkipRows       int `mapstructure:"MAX_SKIP_ROWS"`
	MaxDietDays       int `mapstructure:"MAX_DIET_DAYS"`
	MaxMealsPerDay    int `mapstructure:"MAX_MEALS_PER_DAY"`
	WorkerConcurrency int `mapstructure:"WORKER_CONCURRENCY"`
}

var AppConfig Config

func LoadConfig() {
	// A local .env only fills variables that are not already set.
	_ = godotenv.Load()

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "nutrilog")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_DRAFT_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("FIREBASE_CREDENTIALS_PATH", "config/serviceAccountKey.json")
	viper.SetDefault("FIREBASE_BUCKET_NAME", DefaultBucketName)
	viper.SetDefault("DRAFT_TTL_MINUTES", 30)
	viper.SetDefault("HISTORY_TTL_HOURS", 24)
	viper.SetDefault("MAX_UPLOAD_SIZE_MB", 10)
	viper.SetDefault("DEFAULT_SKIP_ROWS", 1)
	viper.SetDefault("MAX_SKIP_ROWS", 3)
	viper.SetDefault("MAX_DIET_DAYS", 365)
	viper.SetDefault("MAX_MEALS_PER_DAY", 10)
	viper.SetDefault("WORKER_CONCURRENCY", 5)
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nutrilog/config"
	"nutrilog/cron"
	"nutrilog/database"
	dietRepo "nutrilog/database/repository/diet"
	recipeRepo "nutrilog/database/repository/recipe"
	settingsRepo "nutrilog/database/repository/settings"
	shoppingListRepo "nutrilog/database/repository/shoppinglist"
	"nutrilog/handlers"
	"nutrilog/routes"
	"nutrilog/services/diet"
	"nutrilog/services/importer"
	"nutrilog/services/notification"
	"nutrilog/services/storage"
	"nutrilog/services/tasks"
	"nutrilog/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	database.InitDB()
	utils.InitRedis()
	utils.FirebaseInit()

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// repositories.
	diets := dietRepo.NewMongoDietRepo()
	lists := shoppingListRepo.NewMongoShoppingListRepo()
	recipes := recipeRepo.NewMongoRecipeRepo()
	settings := settingsRepo.NewMongoSettingsRepo()

	storageService, err := storage.NewFirebaseStorageService(config.AppConfig.FirebaseCredentialsPath, config.AppConfig.FirebaseBucketName)
	if err != nil {
		logger.Fatal("main: failed to initialize storage service", zap.Error(err))
	}
	defer storageService.Close()

	notificationService, err := notification.NewDefaultNotificationService(utils.FCMClient)
	if err != nil {
		logger.Fatal("main: failed to initialize notification service", zap.Error(err))
	}

	queueClient := asynq.NewClient(cron.RedisOpt())
	defer queueClient.Close()
	worker := cron.InitNotificationWorker(rootCtx, notificationService)

	utils.StartHealthMonitor(rootCtx, utils.RedisClients(), database.MongoClient)

	// services.
	importer.MaxDuration = config.AppConfig.MaxDietDays
	importer.MaxMealsPerDay = config.AppConfig.MaxMealsPerDay
	drafts := importer.NewRedisDraftStore(utils.GetDraftClient(), time.Duration(config.AppConfig.DraftTTLMinutes)*time.Minute)
	importService := &importer.DefaultImportService{
		Drafts: drafts,
		Settings: &importer.SettingsStore{
			Repo:        settings,
			Cache:       utils.GetCacheClient(),
			CacheTTL:    time.Hour,
			DefaultSkip: config.AppConfig.DefaultSkipRows,
			MaxSkip:     config.AppConfig.MaxSkipRows,
		},
		Storage: storageService,
	}
	dietService := &diet.DefaultDietService{
		Diets:         diets,
		ShoppingLists: lists,
		Recipes:       recipes,
		Drafts:        drafts,
		History:       diet.NewRedisHistoryStore(utils.GetDraftClient(), time.Duration(config.AppConfig.HistoryTTLHours)*time.Hour),
		Notifier:      tasks.NewAsynqEnqueuer(queueClient),
		Storage:       storageService,
	}

	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewImportHandler(importService, dietService, config.AppConfig.MaxUploadSizeMB),
		handlers.NewDietHandler(dietService),
	)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(utils.RequestLogger())
	router.MaxMultipartMemory = int64(config.AppConfig.MaxUploadSizeMB) << 20
	routes.RegisterRoutes(router, handlerBundle, utils.AuthClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	worker.Shutdown()
	if err := database.CloseDB(ctx); err != nil {
		logger.Sugar().Errorf("main: closing database: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

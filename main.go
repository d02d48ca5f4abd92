package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookreview/config"
	"bookreview/cron"
	"bookreview/database"
	bookRepoPkg "bookreview/database/repository/book"
	reviewRepoPkg "bookreview/database/repository/review"
	userRepoPkg "bookreview/database/repository/user"
	"bookreview/handlers"
	"bookreview/middleware"
	"bookreview/routes"
	"bookreview/services/book"
	"bookreview/services/cache"
	"bookreview/services/rating"
	"bookreview/services/review"
	"bookreview/services/tasks"
	"bookreview/services/user"
	"bookreview/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("main: failed to load config: %v", err)
	}

	logger, err := utils.InitializeLogger(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("main: failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	utils.ExposeErrorDetails = !cfg.IsProduction()
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	mongoClient, err := database.Connect(rootCtx, cfg.MongoURI)
	if err != nil {
		logger.Fatal("main: failed to connect to MongoDB", zap.Error(err))
	}
	db := mongoClient.Database(cfg.MongoDatabase)
	logger.Info("Connected to MongoDB", zap.String("database", cfg.MongoDatabase))

	// repositories.
	bookRepo := bookRepoPkg.NewMongoBookRepo(db)
	reviewRepo := reviewRepoPkg.NewMongoReviewRepo(db)
	userRepo := userRepoPkg.NewMongoUserRepo(db)
	indexCtx, cancelIndexes := context.WithTimeout(rootCtx, 30*time.Second)
	for name, ensure := range map[string]func(context.Context) error{
		"books":   bookRepo.EnsureIndexes,
		"reviews": reviewRepo.EnsureIndexes,
		"users":   userRepo.EnsureIndexes,
	} {
		if err := ensure(indexCtx); err != nil {
			logger.Fatal("main: failed to create indexes", zap.String("collection", name), zap.Error(err))
		}
	}
	cancelIndexes()

	// redis.
	authClient, err := utils.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisAuthDB)
	if err != nil {
		logger.Fatal("main: auth cache unavailable", zap.Error(err))
	}
	redisClients := []*redis.Client{authClient}

	var bookCache cache.BookCache = cache.NopBookCache{}
	if cacheClient, err := utils.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisCacheDB); err != nil {
		logger.Warn("main: book cache disabled", zap.Error(err))
	} else {
		bookCache = cache.NewRedisBookCache(cacheClient, cfg.BookCacheTTL)
		redisClients = append(redisClients, cacheClient)
	}

	health := utils.NewHealthMonitor(utils.MongoPinger{Client: mongoClient}, redisClients, 60*time.Second)
	health.Start(rootCtx)

	// services.
	aggregator := rating.NewAggregator(reviewRepo, bookRepo, logger.Named("rating"))
	userService := user.NewUserService(userRepo, utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL), authClient, logger.Named("user"))
	bookService := book.NewBookService(bookRepo, reviewRepo, bookCache, cfg.SearchLimit, logger.Named("book"))
	reviewService := review.NewReviewService(bookRepo, reviewRepo, aggregator, bookCache, logger.Named("review"))

	// Failed recomputes are retried off the request path.
	queueOpts := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	}
	queueClient := asynq.NewClient(queueOpts)
	defer queueClient.Close()
	reviewService.Repairs = tasks.NewRatingRepairQueue(queueClient)
	ratingWorker := cron.NewRatingWorker(queueOpts, aggregator, logger.Named("rating-worker"))
	if err := ratingWorker.Start(); err != nil {
		logger.Warn("main: rating repair worker not running", zap.Error(err))
	} else {
		defer ratingWorker.Shutdown()
	}

	// Assemble the handler bundle.
	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewAuthHandler(userService),
		handlers.NewBookHandler(bookService, reviewService, cfg.DefaultPageSize, cfg.MaxPageSize),
		handlers.NewReviewHandler(reviewService),
		handlers.HealthHandler(health),
		middleware.JWTAuthUserMiddleware(userService),
	)

	// Create the Gin router.
	router := gin.New()
	router.Use(middleware.RequestLogger(logger))
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
	for _, client := range redisClients {
		_ = client.Close()
	}
	if err := mongoClient.Disconnect(ctx); err != nil {
		logger.Warn("main: mongo disconnect failed", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	importapp "github.com/bipcerto/backend/internal/application/import"
	"github.com/bipcerto/backend/internal/infrastructure/config"
	"github.com/bipcerto/backend/internal/infrastructure/logger"
	"github.com/bipcerto/backend/internal/infrastructure/persistence"
	"github.com/bipcerto/backend/internal/infrastructure/queue"
	"github.com/bipcerto/backend/internal/infrastructure/storage"
	"github.com/bipcerto/backend/internal/interfaces/http/dto"
	"github.com/bipcerto/backend/internal/interfaces/http/handler"
	"github.com/bipcerto/backend/internal/interfaces/http/middleware"
	"github.com/bipcerto/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting import service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	// Initialize database connection
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	jobRepo := persistence.NewGormImportJobRepository(db.DB)
	stagingRepo := persistence.NewGormStagingRepository(db.DB)
	fulfillmentRepo := persistence.NewGormFulfillmentRepository(db.DB)

	// Initialize file storage for uploaded exports
	files, err := newFileStorage(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize file storage", zap.Error(err))
	}

	// Build the processing pipeline: cascade -> batch processor -> trigger
	cascade := importapp.NewCascadeService(fulfillmentRepo)
	batch := importapp.NewBatchService(jobRepo, stagingRepo, cascade, cfg.Import.ProcessBatchSize)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	var trigger importapp.Trigger
	var goroutineTrigger *importapp.GoroutineTrigger
	switch cfg.Import.Trigger {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(workerCtx).Err(); err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		trigger = queue.NewRedisTrigger(client, queue.DefaultQueueKey)
		worker := queue.NewWorker(client, queue.DefaultQueueKey, batch, log)
		go func() {
			if err := worker.Run(workerCtx); err != nil {
				log.Error("Queue worker stopped", zap.Error(err))
			}
		}()
		log.Info("Redis trigger enabled", zap.String("queue", queue.DefaultQueueKey))
	default:
		goroutineTrigger = importapp.NewGoroutineTrigger(batch, log)
		trigger = goroutineTrigger
	}
	batch.SetTrigger(trigger)

	startService := importapp.NewStartService(jobRepo, stagingRepo, files, trigger, cfg.Import.StagingBatchSize)

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	dto.RegisterValidations()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID(log))
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewImportJobHandler(startService, jobRepo))
	r.Setup(middleware.RequireCompany())

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	// Let in-flight processing passes finish before closing the database
	if goroutineTrigger != nil {
		goroutineTrigger.Wait()
	}
	stopWorker()

	log.Info("Server exited gracefully")
}

// newFileStorage builds the configured storage backend
func newFileStorage(cfg *config.Config, log *zap.Logger) (storage.FileStorage, error) {
	switch cfg.Storage.Provider {
	case "local":
		return storage.NewLocalFileStorage(cfg.Storage.LocalPath)
	default:
		return storage.NewS3FileStorage(&cfg.Storage, storage.WithLogger(log))
	}
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}

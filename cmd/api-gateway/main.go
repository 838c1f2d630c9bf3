package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/academy-attendance-api/api/swagger"
	"github.com/noah-isme/academy-attendance-api/internal/handler"
	"github.com/noah-isme/academy-attendance-api/internal/i18n"
	"github.com/noah-isme/academy-attendance-api/internal/middleware"
	"github.com/noah-isme/academy-attendance-api/internal/repository"
	"github.com/noah-isme/academy-attendance-api/internal/service"
	"github.com/noah-isme/academy-attendance-api/internal/store"
	"github.com/noah-isme/academy-attendance-api/pkg/cache"
	"github.com/noah-isme/academy-attendance-api/pkg/config"
	"github.com/noah-isme/academy-attendance-api/pkg/database"
	"github.com/noah-isme/academy-attendance-api/pkg/jobs"
	"github.com/noah-isme/academy-attendance-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/academy-attendance-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/academy-attendance-api/pkg/middleware/requestid"
)

// @title Academy Attendance API
// @version 0.1.0
// @description Attendance marking and reporting for a multi-branch sports academy
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()
	translator, err := i18n.New(cfg.Locale.Default)
	if err != nil {
		logr.Sugar().Fatalw("failed to load translations", "error", err)
	}

	attendanceStore := store.NewAttendanceStore()
	directory := store.NewDirectory(nil, nil, nil, nil)
	if cfg.Seed.DemoData {
		directory = store.DemoDirectory()
		attendanceStore.ReplaceAll(store.DemoAttendance())
		logr.Info("demo academy loaded", zap.Int("records", attendanceStore.Len()))
	}

	checks := map[string]handler.ReadinessCheck{}

	var redisClient *redis.Client
	if cfg.ReportCache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("report cache disabled: redis unavailable", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close() //nolint:errcheck
		}
	}
	cacheRepo := repository.NewReportCacheRepository(redisClient, "attendance", logr)
	if redisClient != nil {
		checks["redis"] = cacheRepo.Ping
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.ReportCache.TTL, logr, redisClient != nil)

	validate := validator.New()
	attendanceSvc := service.NewAttendanceService(attendanceStore, directory, cacheSvc, metrics, translator, validate, logr)
	defer attendanceSvc.Close()

	var queue *jobs.Queue
	if cfg.Persistence.Enabled {
		db, repo := mustOpenSnapshots(ctx, cfg, logr)
		defer db.Close() //nolint:errcheck
		checks["postgres"] = db.PingContext

		queue = jobs.NewQueue("attendance-snapshots", attendanceSvc.HandleSnapshotJob, jobs.QueueConfig{
			Workers:    cfg.Persistence.SnapshotWorkers,
			MaxRetries: cfg.Persistence.SnapshotRetries,
			Logger:     logr,
		})
		// Workers outlive the signal context so accepted saves finish after Shutdown.
		queue.Start(context.Background())
		attendanceSvc.EnablePersistence(repo, queue)

		if cfg.Persistence.RestoreOnStartup {
			restored, err := attendanceSvc.Restore(ctx)
			if err != nil {
				logr.Warn("restore on startup failed", zap.Error(err))
			} else {
				logr.Info("attendance restored", zap.Int("records", restored.RecordCount))
			}
		}
	}
	metrics.SetRecordCount(attendanceStore.Len())

	metricsHandler := handler.NewMetricsHandler(metrics, checks)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())
	r.Use(middleware.Locale())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Attendance: handler.NewAttendanceHandler(attendanceSvc),
		Directory:  handler.NewDirectoryHandler(service.NewDirectoryService(directory, validate, logr)),
		Dashboard:  handler.NewDashboardHandler(service.NewDashboardService(attendanceStore, directory, translator, logr)),
		Metrics:    metricsHandler,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
	if queue != nil {
		queue.Stop()
	}
}

func mustOpenSnapshots(ctx context.Context, cfg *config.Config, logr *zap.Logger) (*sqlx.DB, *repository.AttendanceSnapshotRepository) {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect postgres", "error", err)
	}
	repo := repository.NewAttendanceSnapshotRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		logr.Sugar().Fatalw("failed to prepare schema", "error", err)
	}
	return db, repo
}

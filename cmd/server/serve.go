package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"alcyxob/fit-platform/internal/api"
	"alcyxob/fit-platform/internal/config"
	"alcyxob/fit-platform/internal/logger"
	"alcyxob/fit-platform/internal/metrics"
	"alcyxob/fit-platform/internal/repository"
	"alcyxob/fit-platform/internal/repository/memory"
	"alcyxob/fit-platform/internal/repository/mongo"
	"alcyxob/fit-platform/internal/service"
	"alcyxob/fit-platform/internal/storage"
	"alcyxob/fit-platform/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func mongoOptions(cfg config.Config, log *slog.Logger) mongo.Options {
	return mongo.Options{
		URI:      cfg.Database.URI,
		Database: cfg.Database.Name,
		Attempts: cfg.Database.ConnectAttempts,
		Delay:    cfg.Database.ConnectDelay,
		Logger:   log,
	}
}

// openStore returns the repositories of the configured driver and a function
// releasing the store.
func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (repository.Repositories, func(), error) {
	if cfg.Database.Driver == config.DriverMemory {
		log.Warn("using the in-memory store; data is lost on restart")
		return memory.NewStore().Repositories(), func() {}, nil
	}

	store, err := mongo.Open(ctx, mongoOptions(cfg, log))
	if err != nil {
		return repository.Repositories{}, nil, err
	}
	log.Info("database connection established", slog.String("database", cfg.Database.Name))

	indexCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	if err := store.EnsureIndexes(indexCtx); err != nil {
		log.Error("failed to ensure indexes", slog.Any("error", err))
	}

	closeStore := func() {
		log.Info("disconnecting mongodb")
		if err := store.Close(context.Background()); err != nil {
			log.Error("failed to disconnect mongodb", slog.Any("error", err))
		}
	}
	return store.Repositories(), closeStore, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New(cfg)
	slog.SetDefault(log)
	log.Info("starting fit-platform", slog.String("version", version))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Options{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
	})
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Error("failed to flush traces", slog.Any("error", err))
		}
	}()

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metrics.Register()
		metricsPath = cfg.Metrics.Path
	}

	repos, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	// --- Initialize Storage ---
	var files storage.FileStorage
	if cfg.S3.Enabled() {
		files, err = storage.NewS3Storage(ctx, cfg.S3, log)
		if err != nil {
			return err
		}
		log.Info("course media storage enabled", slog.String("bucket", cfg.S3.BucketName))
	} else {
		log.Info("course media storage disabled: s3.bucket_name is empty")
	}

	// --- Initialize Services ---
	media := service.NewMediaService(repos.Courses, repos.Uploads, files, cfg.S3.PresignExpiry, log)
	services := api.Services{
		Auth:      service.NewAuthService(repos.Users, cfg.JWT.Secret, cfg.JWT.Expiration, log),
		Users:     service.NewUserService(repos.Users, repos.Workouts, log),
		Courses:   service.NewCourseService(repos.Courses, repos.Users, media, log),
		Stats:     service.NewStatsService(repos.Courses, nil),
		Workouts:  service.NewWorkoutService(repos.Workouts),
		Nutrition: service.NewNutritionService(repos.Meals),
		Media:     media,
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, services, api.Options{
		Logger:      log,
		Production:  cfg.IsProduction(),
		MetricsPath: metricsPath,
	})

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server listening", slog.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down server")

	// The server has shutdownTimeout to finish in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server exited")
	return nil
}

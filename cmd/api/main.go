// Package main is the entry point for the TeamFlow API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/teamflow/teamflow-api/internal/config"
	"github.com/teamflow/teamflow-api/internal/database"
	"github.com/teamflow/teamflow-api/internal/handlers"
	"github.com/teamflow/teamflow-api/internal/logger"
	"github.com/teamflow/teamflow-api/internal/metrics"
	"github.com/teamflow/teamflow-api/internal/repository"
	"github.com/teamflow/teamflow-api/internal/routes"
	"github.com/teamflow/teamflow-api/internal/service"
	"github.com/teamflow/teamflow-api/internal/validation"
	"github.com/teamflow/teamflow-api/pkg/redis"
)

const shutdownTimeout = 5 * time.Second

// @title TeamFlow API
// @version 1.0
// @description Team task management backend: accounts, tasks, teams, dashboard and user administration.
// @host localhost:5000
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.Environment)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Environment,
		}); err != nil {
			log.WithError(err).Warn("Failed to initialise Sentry")
		}
		defer sentry.Flush(2 * time.Second)
	}

	if err := run(cfg, log); err != nil {
		log.WithError(err).Error("Server stopped with error")
		sentry.Flush(2 * time.Second)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	ctx := context.Background()

	if err := validation.RegisterBinding(); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}

	m := metrics.New()

	// Initialize database
	db, err := database.Connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	defer sqlDB.Close()

	gate := database.NewPoolGate(cfg.DBMaxOpenConns, cfg.DBQueueLimit)
	gate.OnReject = m.PoolRejected
	if err := db.Use(gate); err != nil {
		return fmt.Errorf("failed to install pool gate: %w", err)
	}

	if cfg.DBAutoMigrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Info("Database schema migrated")
	}

	if err := m.RegisterDB(sqlDB); err != nil {
		return fmt.Errorf("failed to register database metrics: %w", err)
	}

	checks := map[string]handlers.Pinger{
		"database": sqlDB.PingContext,
	}

	// Initialize Redis
	guard := service.NewNoopLoginGuard()
	if cfg.RedisEnabled() {
		var redisClient *goredis.Client
		redisClient, err = redis.NewClient(ctx, cfg)
		if err != nil {
			return err
		}
		defer redisClient.Close()

		guard = service.NewRedisLoginGuard(redisClient, cfg.LoginMaxAttempts, cfg.LoginLockoutWindow, log)
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
		log.Info("Login throttling backed by Redis")
	} else {
		log.Warn("REDIS_HOST not set, login throttling disabled")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// Initialize services
	jwtService, err := service.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		return err
	}
	passwords := service.NewPasswordVerifier(cfg.BcryptCost)
	activity := service.NewActivityLogger(activityRepo, log)
	defer activity.Wait()

	authService := service.NewAuthService(userRepo, jwtService, passwords, guard, activity, log)
	taskService := service.NewTaskService(taskRepo, activity)
	teamService := service.NewTeamService(teamRepo, userRepo, activity)
	dashboardService := service.NewDashboardService(dashboardRepo, taskService)
	adminService := service.NewAdminService(userRepo, passwords, activity)

	// Setup router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	routes.Setup(router, routes.Handlers{
		Auth:      handlers.NewAuthHandler(authService, log),
		Tasks:     handlers.NewTaskHandler(taskService, log),
		Teams:     handlers.NewTeamHandler(teamService, log),
		Dashboard: handlers.NewDashboardHandler(dashboardService, log),
		Admin:     handlers.NewAdminHandler(adminService, log),
		Health:    handlers.NewHealthHandler(checks),
	}, jwtService, m, cfg, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("Starting TeamFlow API")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aurora-digital/identity/config"
	"github.com/aurora-digital/identity/internal/handler"
	"github.com/aurora-digital/identity/internal/notification"
	"github.com/aurora-digital/identity/internal/repository"
	"github.com/aurora-digital/identity/internal/router"
	"github.com/aurora-digital/identity/internal/service"
	"github.com/aurora-digital/identity/pkg/database"
	"github.com/aurora-digital/identity/pkg/logger"
	"github.com/aurora-digital/identity/pkg/redis"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	if err := logger.InitLogger(cfg.App.Environment); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.GetLogger()
	log.Info("Starting identity service",
		zap.String("environment", cfg.App.Environment),
		zap.String("port", cfg.App.Port),
	)

	db, err := database.NewPostgresDB(database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Name,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.CloseDB(db); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	cache := redis.NewClient(redis.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.Database,
		Enabled:      cfg.Redis.Enabled,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	}, log)
	defer cache.Close()

	publisher := notification.NewPublisher(cfg.AMQP, log)
	defer publisher.Close()
	notifier := notification.NewService(publisher, cfg.App.BaseURL, log)

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	blacklistRepo := repository.NewBlacklistRepository(db, cache)

	tokenSvc := service.NewTokenService(cfg.JWT)
	authSvc := service.NewAuthService(userRepo, sessionRepo, blacklistRepo, tokenSvc, notifier, cfg.JWT)
	userSvc := service.NewUserService(userRepo, sessionRepo, blacklistRepo)
	cleanupSvc := service.NewCleanupService(sessionRepo, blacklistRepo, cfg.Cleanup.Interval)

	engine := router.New(cfg, router.Dependencies{
		Auth:    handler.NewAuthHandler(authSvc, cfg.Cookie),
		Users:   handler.NewUserHandler(userSvc),
		System:  handler.NewSystemHandler(db, cache, cleanupSvc),
		AuthSvc: authSvc,
	})

	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	go cleanupSvc.Run(cleanupCtx)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.App.Timeout,
		WriteTimeout: cfg.App.Timeout,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	cancelCleanup()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}

	log.Info("Server stopped")
}

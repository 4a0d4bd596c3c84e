package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/myportfolify/backend/config"
	"github.com/myportfolify/backend/internal/api"
	"github.com/myportfolify/backend/internal/database"
	"github.com/myportfolify/backend/internal/router"
	"github.com/myportfolify/backend/internal/server"
	"github.com/myportfolify/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := initLogger()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.New(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Session backend: stateless bearer tokens by default, Redis-backed
	// sessions when configured.
	var sessions service.SessionStrategy
	switch cfg.SessionStrategy {
	case config.StrategySession:
		redisClient, err := database.NewRedisClient(cfg)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		sessions = service.NewRedisSessionStrategy(redisClient, logger)
	default:
		sessions = service.NewJWTStrategy(cfg.JWTSecret)
	}

	mailer := service.NewEmailService(cfg, logger)
	authService := service.NewAuthService(db.DB, sessions, mailer, logger)
	profileService := service.NewProfileService(db.DB)
	adminService := service.NewAdminService(db.DB, sessions, logger, config.GetEnvironment() == config.Development)
	oauth := service.NewGoogleOAuth(
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		fmt.Sprintf("%s/auth/google/callback", cfg.BackendURL),
	)

	authHandler := api.NewAuthHandler(authService, oauth, cfg, logger)
	profileHandler := api.NewProfileHandler(profileService, logger)
	adminHandler := api.NewAdminHandler(adminService, logger)

	r := router.SetupRouter(cfg, authHandler, profileHandler, adminHandler, sessions, db)
	srv := server.New(r, cfg.ServerHost, cfg.ServerPort, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("received signal", zap.String("signal", sig.String()))
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Fatal("server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func initLogger() (*zap.Logger, error) {
	if config.GetEnvironment() == config.Development {
		return zap.NewDevelopment()
	}
	zc := zap.NewProductionConfig()
	zc.DisableStacktrace = true
	return zc.Build()
}

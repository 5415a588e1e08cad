package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tuannm151/sweetshop/internal/auth"
	"github.com/tuannm151/sweetshop/internal/config"
	"github.com/tuannm151/sweetshop/internal/http"
	"github.com/tuannm151/sweetshop/internal/log"
	"github.com/tuannm151/sweetshop/internal/repository"
	"github.com/tuannm151/sweetshop/internal/service"
	"github.com/tuannm151/sweetshop/internal/storage/db"
	"github.com/tuannm151/sweetshop/internal/telemetry"
	"github.com/tuannm151/sweetshop/pkg/cmdutil"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running api application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
		HTTP     config.HTTP
		Auth     config.Auth
		Otel     config.Otel
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	cleanupTracer, err := telemetry.InitTracer(ctx, cfg.Otel)
	if err != nil {
		return fmt.Errorf("error initializing tracer: %w", err)
	}
	defer func() {
		if err := cleanupTracer(ctx); err != nil {
			logger.ErrorContext(ctx, "error cleaning up tracer", slog.Any("error", err))
		}
	}()

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	dbClient := db.NewClient(pgxPool)

	tokenService, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("error creating token service: %w", err)
	}

	userRepository := repository.NewUserRepository(dbClient)
	sweetRepository := repository.NewSweetRepository(dbClient)

	authService := service.NewAuthService(userRepository, tokenService)
	sweetService := service.NewSweetService(dbClient, sweetRepository)

	svc := http.New(cfg.HTTP, logger, authService, sweetService, dbClient)
	cleanup, err := svc.Run(ctx)
	if err != nil {
		return fmt.Errorf("error running http service: %w", err)
	}

	logger.InfoContext(ctx, "http service started", slog.String("address", fmt.Sprintf(":%d", cfg.HTTP.Port)))

	<-cmdutil.InterruptChan()

	logger.InfoContext(ctx, "http service is shutting down")
	if err := cleanup(ctx); err != nil {
		logger.ErrorContext(ctx, "error shutting down http service", slog.Any("error", err))
	}

	logger.InfoContext(ctx, "http service is stopped")

	return nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/presenca-labs/presenca/internal/api"
	"github.com/presenca-labs/presenca/internal/config"
	"github.com/presenca-labs/presenca/internal/database"
	"github.com/presenca-labs/presenca/internal/ledger"
	"github.com/presenca-labs/presenca/internal/matcher"
	"github.com/presenca-labs/presenca/internal/repository"
	"github.com/presenca-labs/presenca/internal/service"
	"github.com/presenca-labs/presenca/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	logger.Info("starting Presenca API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.Int("embedding_dim", cfg.EmbeddingDim),
		slog.Float64("match_threshold", cfg.MatchThreshold),
		slog.String("facility_tz", cfg.FacilityTZ),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		embeddings service.EmbeddingStore
		attendance service.AttendanceLedger
	)

	if cfg.DatabaseURL != "" {
		pool, err := database.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		embeddings = repository.NewIdentityRepository(pool, cfg.EmbeddingDim)
		attendance = repository.NewAttendanceRepository(pool, loc)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory storage")
		embeddings = store.New(cfg.EmbeddingDim)
		attendance = ledger.NewMemory(loc)
	}

	svc := service.NewAttendanceService(
		embeddings,
		attendance,
		matcher.New(cfg.EmbeddingDim, cfg.MatchThreshold),
		loc,
	)

	router := api.NewRouter(logger, &api.Dependencies{Service: svc})
	router.Setup()

	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("shutting down server...")
	if err := router.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}
	logger.Info("server stopped")

	return nil
}

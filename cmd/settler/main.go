package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/partnerlink/platform/internal/infra"
	"github.com/partnerlink/platform/internal/ledger"
	"github.com/partnerlink/platform/internal/repository"
	"github.com/partnerlink/platform/internal/scheduler"
	"github.com/partnerlink/platform/internal/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("settler failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := infra.NewPostgresPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()
	logger.Info("settler connected to postgres")

	partnerRepo := repository.NewPartnerRepository()
	entryRepo := repository.NewEntryRepository()
	queueRepo := repository.NewCommissionQueueRepository()
	outboxRepo := repository.NewOutboxRepository()

	engine := ledger.NewEngine(partnerRepo, entryRepo, outboxRepo)
	settler := service.NewSettlerService(pool, queueRepo, outboxRepo, engine, logger)

	sched := scheduler.New(settler, logger, time.Weekday(cfg.SettleWeekday), cfg.SettleHour)
	sched.Run(ctx)
	return nil
}

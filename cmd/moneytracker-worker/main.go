package main

import (
	"context"
	"errors"
	"os"
	"time"

	"moneytracker/internal/adapters"
	"moneytracker/internal/amqp"
	"moneytracker/internal/backend"
	"moneytracker/internal/cli"
	"moneytracker/internal/config"
	applog "moneytracker/internal/log"
	"moneytracker/internal/scheduler"
	"moneytracker/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	logger.Info("Starting moneytracker-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}
	// The in-memory store is private to the web process.
	if cfg.DataBackend == config.BackendMemory {
		logger.Error("The worker needs a shared backend", "backend", cfg.DataBackend)
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		os.Exit(1)
	}
	store, err := backend.NewFactory(logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize storage backend", applog.FieldError, err)
		os.Exit(1)
	}
	defer store.Close()

	amqpClient, err := amqp.NewClient(context.Background(), cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	backupWorker := worker.NewBackupWorker(adapters.NewStorageAdapter(store.Store, logger), logger, worker.DefaultMinInterval)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		logger.Info("Shutting down worker...")
		if err := backupWorker.FlushPending(shutdownCtx); err != nil {
			logger.Error("Final backup failed", applog.FieldError, err)
		}
	})

	if err := backupWorker.StartupCheck(ctx); err != nil {
		logger.Error("Failed startup backup check", applog.FieldError, err)
	}

	// Periodic flush for throttled events and any missed messages.
	go func() {
		_ = scheduler.Every(ctx, cfg.BackupInterval, func(ctx context.Context) {
			if err := backupWorker.FlushPending(ctx); err != nil {
				logger.Error("Periodic backup failed", applog.FieldError, err)
			}
		})
	}()

	if err := amqpClient.ConsumeRecordEvents(ctx, backupWorker.HandleRecordEvent); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", applog.FieldError, err)
		os.Exit(1)
	}

	<-done
	logger.Info("Worker stopped", "processed", backupWorker.Stats())
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"moneytracker/internal/adapters"
	"moneytracker/internal/amqp"
	"moneytracker/internal/backend"
	"moneytracker/internal/cache"
	"moneytracker/internal/cli"
	"moneytracker/internal/core"
	"moneytracker/internal/dashboard"
	apphttp "moneytracker/internal/http"
	applog "moneytracker/internal/log"
	"moneytracker/internal/middleware/ratelimit"
	"moneytracker/internal/scheduler"
	"moneytracker/internal/services"
)

const (
	shutdownTimeout    = 30 * time.Second
	amqpConnectTimeout = 15 * time.Second
	cacheSweepInterval = time.Minute
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		os.Exit(1)
	}
	store, err := backend.NewFactory(logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize storage backend", applog.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	adapter := adapters.NewStorageAdapter(store.Store, logger)
	dash := dashboard.New(adapter, logger, cfg.ChartDelay)

	// AMQP is optional; without it mutations are only logged.
	var (
		amqpClient *amqp.Client
		publisher  services.EventPublisher
	)
	if cfg.AMQPURL != "" {
		connectCtx, cancel := context.WithTimeout(context.Background(), amqpConnectTimeout)
		amqpClient, err = amqp.NewClient(connectCtx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		cancel()
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without record events", applog.FieldError, err)
			amqpClient = nil
		} else {
			publisher = amqpClient
			logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	debouncer := scheduler.NewDebouncer(cfg.DebounceDelay, func() {
		dash.Refresh(context.Background())
	})
	deps := services.Deps{
		Storage:   adapter,
		Publisher: publisher,
		Updates:   debouncer,
		Logger:    logger,
	}
	transactions := services.NewTransactionService(deps)
	goals := services.NewGoalService(deps)
	theme := services.NewThemeService(deps, func(ctx context.Context) {
		dash.LoadTheme(ctx)
		dash.RefreshChart(ctx)
	})

	limiter := ratelimit.NewLimiter(ratelimit.DefaultConfig())
	overviews := cache.NewLRUCache[core.MonthOverview](100, 5*time.Minute)
	caches := cache.NewManager(logger)
	caches.Register(overviews)

	srv := apphttp.NewServer(apphttp.Options{
		Addr:         cfg.Addr(),
		Storage:      adapter,
		Dashboard:    dash,
		Transactions: transactions,
		Goals:        goals,
		Theme:        theme,
		Logger:       logger,
		Pages: apphttp.PageConfig{
			TransactionsPageSize:  cfg.TransactionsPageSize,
			TransactionsLazyDelay: cfg.TransactionsLazyDelay,
			GoalsPageSize:         cfg.GoalsPageSize,
			GoalsLazyDelay:        cfg.GoalsLazyDelay,
		},
		RefreshDelay:  cfg.DebounceDelay,
		ChartDelay:    cfg.ChartDelay,
		RateLimiter:   limiter,
		OverviewCache: overviews,
	})

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, shutdownTimeout, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		debouncer.Stop()
		// last snapshot before the store closes
		adapter.Backup(shutdownCtx)
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting moneytracker server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return scheduler.Every(gctx, cfg.BackupInterval, func(ctx context.Context) {
			adapter.Backup(ctx)
		})
	})
	g.Go(func() error {
		return caches.Run(gctx, cacheSweepInterval)
	})
	g.Go(func() error {
		return limiter.Run(gctx)
	})

	dash.Boot(gctx)

	exitCode := 0
	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		exitCode = 1
	} else {
		<-done
	}

	if amqpClient != nil {
		if err := amqpClient.Close(); err != nil {
			logger.Warn("Failed to close AMQP client", applog.FieldError, err)
		}
	}
	if err := store.Close(); err != nil {
		logger.Warn("Failed to close storage backend", applog.FieldError, err)
	}

	if exitCode != 0 {
		os.Exit(exitCode)
	}
	logger.Info("Server stopped gracefully")
}

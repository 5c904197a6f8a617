package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/xavierca1/clicom-leads/internal/config"
	"github.com/xavierca1/clicom-leads/internal/infra/cache"
	"github.com/xavierca1/clicom-leads/internal/infra/database"
	"github.com/xavierca1/clicom-leads/internal/infra/http/handlers"
	metrics "github.com/xavierca1/clicom-leads/internal/infra/http/middleware"
	"github.com/xavierca1/clicom-leads/internal/infra/mail"
	"github.com/xavierca1/clicom-leads/internal/infra/queue"
	"github.com/xavierca1/clicom-leads/internal/usecase"
)

const version = "1.0.0"

func main() {
	if err := run(); err != nil {
		slog.Error("api stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.SetDefault(cfg.NewLogger())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Database
	db, err := database.NewDBConnection(cfg.DatabaseURL, cfg.DBMaxOpenConns)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.MigrationsEnabled {
		if err := database.RunMigrations(db); err != nil {
			return err
		}
	}

	health := handlers.NewHealthHandler(db, version)
	pipelineMetrics := metrics.NewPipelineMetrics()

	// 2. Notification transport
	var notifier usecase.Notifier
	if cfg.NotificationsEnabled() {
		switch cfg.NotifyTransport {
		case config.NotifyQueue:
			rabbitMQ, err := queue.NewRabbitMQ(cfg.AMQPURL)
			if err != nil {
				return err
			}
			defer rabbitMQ.Close()
			health.RabbitMQ = rabbitMQ.Conn
			notifier = queue.NewProducer(rabbitMQ.Ch)
		default:
			notifier = mail.NewStaffNotifierFromConfig(cfg)
		}
	}
	dispatcher := usecase.NewNotificationDispatcher(notifier, cfg.NotifyTimeout, pipelineMetrics)

	// 3. Duplicate guard, optional and fail-open
	var guard usecase.DuplicateGuard
	if cfg.DedupEnabled() {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			slog.Warn("redis unavailable, duplicate guard disabled", "error", err)
		} else {
			defer rdb.Close()
			health.Redis = rdb
			guard = cache.NewSubmissionGuard(rdb, cfg.DedupWindow)
		}
	}

	// 4. Pipeline
	captureLeadUC := usecase.NewCaptureLeadUseCase(usecase.CaptureLeadDeps{
		UnitOfWork:      database.NewUnitOfWork(db, cfg.DBTxTimeout),
		Validator:       usecase.NewValidator(cfg.StrictNameLength),
		Dispatcher:      dispatcher,
		Guard:           guard,
		Metrics:         pipelineMetrics,
		Location:        cfg.Location,
		HoneypotEnabled: cfg.HoneypotEnabled,
	})

	// 5. HTTP
	contact := handlers.NewContactHandler(
		captureLeadUC,
		handlers.NewRateLimiter(ctx, cfg.RateLimitPerMinute, time.Minute),
	)

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: newRouter(routerDeps{
			Contact:        contact,
			Health:         health,
			AllowedOrigins: cfg.AllowedOrigins,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("api listening",
			"addr", srv.Addr,
			"notify_transport", cfg.NotifyTransport,
			"dedup", guard != nil,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	dispatcher.Wait()
	return nil
}

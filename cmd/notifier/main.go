package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/xavierca1/clicom-leads/internal/config"
	"github.com/xavierca1/clicom-leads/internal/infra/mail"
	"github.com/xavierca1/clicom-leads/internal/infra/queue"
)

func main() {
	if err := run(); err != nil {
		slog.Error("notifier stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.LoadNotifier()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.SetDefault(cfg.NewLogger())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rabbitMQ, err := queue.NewRabbitMQ(cfg.AMQPURL)
	if err != nil {
		return err
	}
	defer rabbitMQ.Close()

	// One unacked message at a time keeps SMTP load predictable.
	if err := rabbitMQ.Ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	worker := queue.NewWorker(rabbitMQ.Ch, mail.NewStaffNotifierFromConfig(cfg))
	return worker.Start(ctx, queue.QueueName)
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"quizforge/internal/config"
	"quizforge/internal/logger"
	"quizforge/internal/notification"

	"go.uber.org/zap"
)

// The notifier consumes the notification topic and sends the emails.
// It runs as its own process so email latency never touches the API.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	l := logger.Get()

	sender := notification.NewSMTPEmailSender(&cfg.SMTP)
	worker, err := notification.NewWorker(notification.WorkerConfig{
		Brokers:       cfg.Kafka.Brokers,
		Topic:         cfg.Kafka.Topic,
		ConsumerGroup: "quizforge-notifier",
	}, sender)
	if err != nil {
		l.Fatal("failed to create notification worker", zap.Error(err))
	}
	defer worker.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
		l.Fatal("notification worker stopped", zap.Error(err))
	}
	l.Info("notification worker shut down")
}

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketingai-backend/internal/config"
	"marketingai-backend/internal/db"
	"marketingai-backend/internal/demo"
	"marketingai-backend/internal/jobs"
	"marketingai-backend/internal/notifications"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if cfg.QueueRedisAddr == "" {
		logger.Error("QUEUE_REDIS_ADDR is required for the worker")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mongo connected")
	defer client.Disconnect(context.Background())

	mailer := notifications.NewBrevoClient(cfg.BrevoAPIKey, cfg.BrevoSenderEmail, cfg.BrevoSenderName, cfg.BrevoSandbox)
	if mailer == nil {
		logger.Error("brevo mailer is not configured, emails cannot be sent")
		os.Exit(1)
	}
	logger.Info("brevo mailer enabled", slog.String("sender", cfg.BrevoSenderEmail), slog.Bool("sandbox", cfg.BrevoSandbox))

	demoRepo := demo.NewRepository(cols.Demos)

	server := jobs.NewServer(cfg.QueueRedisAddr, cfg.QueueConcurrency, demoRepo, mailer, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("worker started",
			slog.String("addr", cfg.QueueRedisAddr),
			slog.Int("concurrency", cfg.QueueConcurrency),
		)
		errCh <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("worker error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-stop:
		server.Stop()
		logger.Info("worker stopped")
	}
}

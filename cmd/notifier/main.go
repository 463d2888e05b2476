// Command notifier runs the outbound email trigger: it consumes new-post
// events and mails every registered user once per post.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeshareforum/internal/notifier"
	"codeshareforum/internal/store"
	"codeshareforum/pkg/config"
	"codeshareforum/pkg/logger"
	"codeshareforum/pkg/mailer"
	"codeshareforum/pkg/queue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := store.Connect(connectCtx, cfg, log)
	connectCancel()
	if err != nil {
		log.Error("Failed to connect to document store: %v", err)
		os.Exit(1)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		_ = db.Close(closeCtx)
	}()

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v", err)
		os.Exit(1)
	}
	defer queueClient.Close()

	worker := notifier.NewWorker(queueClient, db.Posts(), db.Users(), mailer.NewSMTPSender(cfg), log)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info("Shutting down notifier...")
		cancel()
	}()

	log.Info("Notifier started")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Notifier stopped: %v", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/investplatform/admin-backend/internal/config"
	"github.com/investplatform/admin-backend/internal/db"
	"github.com/investplatform/admin-backend/internal/jobs"
	"github.com/investplatform/admin-backend/internal/mq"
	"github.com/investplatform/admin-backend/internal/observability"
	postgresrepo "github.com/investplatform/admin-backend/internal/repository/postgres"
)

const (
	outboxInterval  = 5 * time.Second
	outboxBatchSize = 100
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := observability.NewLogger(cfg.Env, "worker")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	gdb, err := db.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to connect postgres", "err", err)
		os.Exit(1)
	}

	notificationRepo := postgresrepo.NewNotificationRepository(gdb)
	userRepo := postgresrepo.NewUserRepository(gdb)

	producer := mq.NewProducer(cfg.KafkaBrokers, logger)
	defer producer.Close()
	consumer := mq.NewConsumer(cfg.KafkaBrokers, cfg.KafkaLogsGroupID, cfg.KafkaLogsTopic, logger)
	defer consumer.Close()

	outbox := jobs.NewWorker(notificationRepo, producer, cfg.KafkaNotificationTopic)
	ingester := jobs.NewLogIngester(consumer, userRepo, logger)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("notification outbox worker starting", "topic", cfg.KafkaNotificationTopic)
		if err := outbox.Run(runCtx, outboxInterval, outboxBatchSize); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("outbox worker stopped", "err", err)
		}
	}()

	go func() {
		logger.Info("log ingester starting", "topic", cfg.KafkaLogsTopic)
		if err := ingester.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("log ingester stopped", "err", err)
		}
	}()

	<-runCtx.Done()
	logger.Info("worker stopped")
}

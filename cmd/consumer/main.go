package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"example.com/activities/internal/config"
	"example.com/activities/internal/consumer"
	"example.com/activities/internal/logging"
	httptransport "example.com/activities/internal/transport/http"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if !cfg.KafkaEnabled() {
		logger.Fatal("KAFKA_BROKERS must be set for the roster consumer")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metricsSrv := httptransport.NewServer(httptransport.ServerConfig{
		Address:     cfg.MetricsAddress,
		ReadTimeout: 5 * time.Second,
		IdleTimeout: 60 * time.Second,
	}, promhttp.Handler())

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:         cfg.KafkaBrokers,
		GroupID:         cfg.ConsumerGroupID,
		Topic:           cfg.RosterTopic,
		MinBytes:        1,
		MaxBytes:        10e6,
		CommitInterval:  time.Second,
		RetentionTime:   24 * time.Hour,
		ReadLagInterval: -1,
	})

	proc := consumer.NewProcessor(reader, consumer.NewAuditHandler(logger), consumer.WithLogger(logger))

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		if err := httptransport.Serve(ctx, metricsSrv, cfg.ShutdownTimeout, logger); err != nil {
			logger.Error("metrics server error", zap.Error(err))
		}
	}()

	go func() {
		defer wg.Done()
		defer stop()
		defer reader.Close()

		logger.Info("consumer started", zap.String("topic", cfg.RosterTopic), zap.String("group", cfg.ConsumerGroupID))
		if err := proc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("consumer stopped with error", zap.String("topic", cfg.RosterTopic), zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("consumer shutdown requested")
	wg.Wait()
}

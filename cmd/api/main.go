package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"example.com/activities/internal/api"
	"example.com/activities/internal/config"
	"example.com/activities/internal/domain"
	"example.com/activities/internal/events"
	"example.com/activities/internal/logging"
	"example.com/activities/internal/observability"
	"example.com/activities/internal/registry"
	httptransport "example.com/activities/internal/transport/http"
	"example.com/activities/internal/web"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	seed, err := registry.LoadSeedFile(cfg.SeedFile)
	if err != nil {
		logger.Fatal("failed to load activity seed", zap.String("seed_file", cfg.SeedFile), zap.Error(err))
	}
	repo, err := registry.NewInMemoryRepository(seed)
	if err != nil {
		logger.Fatal("failed to build activity registry", zap.Error(err))
	}
	for _, activity := range seed {
		observability.RecordParticipants(activity.Name, len(activity.Participants))
	}

	publisher, closePublisher := buildPublisher(cfg, logger)
	defer closePublisher()

	service := domain.NewService(repo, publisher,
		domain.WithLogger(logger),
		domain.WithCapacityEnforcement(cfg.EnforceCapacity),
	)

	handler := api.NewHandler(service, web.Static(), logger)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, httptransport.Chain(mux,
		httptransport.Recover(logger),
		httptransport.RequestLogger(logger),
		httptransport.CORS(cfg.CORSAllowedOrigin),
	))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("activities service starting",
		zap.Int("activities", len(seed)),
		zap.Bool("enforce_capacity", cfg.EnforceCapacity),
	)
	if err := httptransport.Serve(ctx, server, cfg.ShutdownTimeout, logger); err != nil {
		logger.Error("server error", zap.Error(err))
	}
}

// buildPublisher fans roster events out to every configured sink.
func buildPublisher(cfg config.Config, logger *zap.Logger) (events.Publisher, func()) {
	var (
		sinks   events.MultiPublisher
		closers []func() error
	)

	if cfg.KafkaEnabled() {
		kafkaPublisher := events.NewKafkaPublisher(events.KafkaConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.RosterTopic,
			BatchSize:    cfg.KafkaBatchSize,
			BatchTimeout: cfg.KafkaBatchTimeout,
		})
		sinks = append(sinks, kafkaPublisher)
		closers = append(closers, kafkaPublisher.Close)
		logger.Info("publishing roster events to kafka",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.RosterTopic),
		)
	}
	if cfg.RosterWebhookURL != "" {
		sinks = append(sinks, events.NewWebhookPublisher(cfg.RosterWebhookURL, cfg.RosterWebhookToken, cfg.HTTPTimeout))
		logger.Info("publishing roster events to webhook", zap.String("url", cfg.RosterWebhookURL))
	}

	closeAll := func() {
		for _, closeFn := range closers {
			if err := closeFn(); err != nil {
				logger.Warn("publisher close failed", zap.Error(err))
			}
		}
	}

	switch len(sinks) {
	case 0:
		return events.NoopPublisher{}, closeAll
	case 1:
		return sinks[0], closeAll
	default:
		return sinks, closeAll
	}
}

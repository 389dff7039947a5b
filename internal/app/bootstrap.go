// Package app wires configuration, storage, services, and transports into a
// running application.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"smartMatchApp/config"
	"smartMatchApp/internal/domain/repository"
	"smartMatchApp/internal/domain/service"
	httphandlers "smartMatchApp/internal/handlers/http"
	ws "smartMatchApp/internal/handlers/websocket"
	redisrepo "smartMatchApp/internal/infrastructure/cache"
	"smartMatchApp/internal/infrastructure/provider"
	"smartMatchApp/internal/infrastructure/queue"
	"smartMatchApp/internal/infrastructure/storage"
	"smartMatchApp/pkg/utils"
)

// AppContext holds all app dependencies
type AppContext struct {
	Config *config.Config
	Log    *slog.Logger

	Store      repository.Store
	Provider   *provider.NansenClient
	Enrichment *service.EnrichmentCache
	Matches    *service.MatchEngine
	Feed       *service.FeedAssembler
	Chat       *service.ChatRelay
	Hub        *ws.ChatHub
	Server     *httphandlers.Server

	Emitter        *ChannelEmitter
	EventProcessor *EventProcessor
	SinkProcessor  *EventProcessor // drains the Kafka feed, nil in direct mode
	KafkaProducer  *queue.KafkaProducer
	KafkaConsumer  *queue.KafkaConsumer
	Clickhouse     *storage.ClickHouseRepository
	Redis          *redisrepo.RedisRepository
}

// NewApp initializes the app context with all dependencies. Optional infra
// (Redis, Kafka, ClickHouse) degrades gracefully: a failed connection logs a
// warning and the app runs without that component.
func NewApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (*AppContext, error) {
	app := &AppContext{Config: cfg, Log: log}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	app.Store = store
	if cfg.UsePostgres() {
		log.Info("storage initialized", slog.String("backend", "postgres"))
	} else {
		log.Info("storage initialized", slog.String("backend", "sqlite"), slog.String("path", cfg.DatabaseURL))
	}

	seeded, err := utils.SeedDemoTraders(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("seed demo traders: %w", err)
	}
	if seeded > 0 {
		log.Info("seeded demo traders into empty database", slog.Int("count", seeded))
	}

	// optional enrichment snapshot store
	var snapshots repository.EnrichmentSnapshots
	if cfg.RedisAddr != "" {
		redisRepo := redisrepo.NewRedisRepository(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.EnrichmentTTL)
		if err := redisRepo.Ping(ctx); err != nil {
			log.Warn("Redis unavailable, running without enrichment snapshots", slog.Any("error", err))
		} else {
			snapshots = redisRepo
			app.Redis = redisRepo
			log.Info("Redis snapshot store initialized")
		}
	}

	app.Provider = provider.NewNansenClient(cfg.NansenBaseURL, cfg.NansenAPIKey, "solana", cfg.NansenTimeout)
	if !app.Provider.Configured() {
		log.Warn("no provider API key configured, serving synthetic data")
	}
	app.Enrichment = service.NewEnrichmentCache(
		app.Provider, snapshots, cfg.EnrichmentTTL, cfg.NansenTimeout, cfg.SolanaBaseAsset, log)

	// activity event pipeline
	app.Emitter = NewChannelEmitter(cfg.EventBufferSize, log)
	if len(cfg.KafkaBrokers) > 0 {
		app.KafkaProducer = queue.NewKafkaProducer(queue.KafkaConfig{
			Brokers:       cfg.KafkaBrokers,
			Topic:         cfg.KafkaTopic,
			ConsumerGroup: cfg.KafkaConsumerGroup,
		})
		log.Info("Kafka producer initialized", slog.String("topic", cfg.KafkaTopic))
	}
	if cfg.ClickhouseAddr != "" {
		ch, err := storage.NewClickHouseRepository(storage.ClickHouseConfig{
			Addr:     cfg.ClickhouseAddr,
			Username: cfg.ClickhouseUsername,
			Password: cfg.ClickhousePassword,
			Timeout:  cfg.ClickhouseTimeout,
		})
		if err != nil {
			log.Warn("ClickHouse unavailable, running without the analytics sink", slog.Any("error", err))
		} else {
			app.Clickhouse = ch
			log.Info("ClickHouse analytics sink initialized")
		}
	}
	var sink repository.ActivitySink
	if app.Clickhouse != nil {
		sink = app.Clickhouse
	}

	// With the consumer enabled, events reach the sink through the topic:
	// the direct processor only publishes, and a second processor drains
	// the subscription into the sink.
	directSink := sink
	if cfg.KafkaConsumerEnabled && app.KafkaProducer != nil && sink != nil {
		app.KafkaConsumer = queue.NewKafkaConsumer(queue.KafkaConfig{
			Brokers:       cfg.KafkaBrokers,
			Topic:         cfg.KafkaTopic,
			ConsumerGroup: cfg.KafkaConsumerGroup,
		})
		events, err := app.KafkaConsumer.Subscribe(ctx)
		if err != nil {
			log.Warn("Kafka subscribe failed, persisting events in-process", slog.Any("error", err))
			app.KafkaConsumer = nil
		} else {
			app.SinkProcessor = NewEventProcessor(events, nil, sink, log)
			directSink = nil
			log.Info("Kafka consumer draining into the analytics sink",
				slog.String("group", cfg.KafkaConsumerGroup))
		}
	}
	app.EventProcessor = NewEventProcessor(app.Emitter.Events(), kafkaOrNil(app.KafkaProducer), directSink, log)

	app.Matches = service.NewMatchEngine(store, app.Emitter, log)
	app.Feed = service.NewFeedAssembler(store, app.Enrichment, utils.DemoTraders, cfg.FeedQuota, cfg.FeedScanLimit, log)
	app.Hub = ws.NewChatHub(log)
	app.Chat = service.NewChatRelay(store, app.Hub, app.Emitter, log)

	app.Server = httphandlers.NewServer(":"+cfg.HTTPPort, httphandlers.ServerDeps{
		Store:      store,
		Matches:    app.Matches,
		Feed:       app.Feed,
		Chat:       app.Chat,
		Enrichment: app.Enrichment,
		Provider:   app.Provider,
		WSHandler:  app.Hub.Handler(),
	}, cfg.AuthRequired, log)

	return app, nil
}

func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	if cfg.UsePostgres() {
		return storage.NewPostgresRepository(ctx, cfg.DatabaseURL)
	}
	return storage.NewSQLiteRepository(cfg.DatabaseURL)
}

// kafkaOrNil avoids a typed-nil interface when Kafka is not configured.
func kafkaOrNil(p *queue.KafkaProducer) queue.EventProducer {
	if p == nil {
		return nil
	}
	return p
}

// Cleanup performs graceful shutdown of all components
func (a *AppContext) Cleanup() {
	if a.KafkaConsumer != nil {
		if err := a.KafkaConsumer.Close(); err != nil {
			a.Log.Error("error closing Kafka consumer", slog.Any("error", err))
		}
	}
	if a.KafkaProducer != nil {
		if err := a.KafkaProducer.Close(); err != nil {
			a.Log.Error("error closing Kafka producer", slog.Any("error", err))
		}
	}
	if a.Clickhouse != nil {
		if err := a.Clickhouse.Close(); err != nil {
			a.Log.Error("error closing ClickHouse connection", slog.Any("error", err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Log.Error("error closing Redis connection", slog.Any("error", err))
		}
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Log.Error("error closing store", slog.Any("error", err))
		}
	}
	a.Log.Info("all resources cleaned up")
}

package main

import (
	"context"
	"fmt"
	"log/slog"

	"landregistry/internal/audit"
	"landregistry/internal/platform/config"
	"landregistry/internal/platform/postgres"
	"landregistry/internal/platform/redis"
	"landregistry/internal/property/service"
	"landregistry/internal/property/store"
)

// openIndex builds the configured index backend. The returned func releases
// its connections.
func openIndex(ctx context.Context, cfg config.Config, log *slog.Logger) (service.Index, func(), error) {
	switch cfg.Index.Backend {
	case config.IndexPostgres:
		db, err := postgres.Open(ctx, cfg.Index.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres index: %w", err)
		}
		pg := store.NewPostgres(db, cfg.Index.Collection)
		if err := pg.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("ensure index schema: %w", err)
		}
		log.Info("using postgres index", "collection", cfg.Index.Collection)
		return pg, func() { _ = db.Close() }, nil
	case config.IndexRedis:
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("open redis index: %w", err)
		}
		log.Info("using redis index", "collection", cfg.Index.Collection)
		return store.NewRedis(client.Client, cfg.Index.Collection), func() { _ = client.Close() }, nil
	default:
		log.Info("using in-memory index")
		return store.NewInMemoryStore(), func() {}, nil
	}
}

// openAuditStore streams property events to Kafka when brokers are set and
// falls back to the structured log otherwise.
func openAuditStore(ctx context.Context, cfg config.KafkaConfig, log *slog.Logger) (audit.Store, func(), error) {
	if len(cfg.Brokers) == 0 {
		return audit.NewLogStore(log), func() {}, nil
	}
	ks, err := audit.NewKafkaStore(ctx, cfg.Brokers, cfg.Topic)
	if err != nil {
		return nil, nil, fmt.Errorf("open kafka audit stream: %w", err)
	}
	log.Info("streaming property events", "brokers", cfg.Brokers, "topic", cfg.Topic)
	return ks, ks.Close, nil
}

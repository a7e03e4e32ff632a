package cli

import (
	"context"
	"net/http"

	"github.com/turtacn/RegistryRisk-Intelligence/internal/application/classification"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/config"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/infrastructure/database/redis"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/infrastructure/storage/minio"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/interfaces/http/handlers"
)

// appOptions selects the optional backends a command needs.
type appOptions struct {
	publishResults bool
}

// app is the composition root shared by serve and worker.  Backends whose
// configuration is empty are left nil and the service skips them.
type app struct {
	cfg    *config.Config
	logger logging.Logger

	collector prometheus.MetricsCollector
	metrics   *prometheus.RegistryMetrics

	engine   *classification.Engine
	service  *classification.Service
	producer *kafka.Producer

	checkers []handlers.HealthChecker
	closers  []func() error
}

// buildApp wires every configured backend.  On error the backends opened so
// far are closed before returning.
func buildApp(cfg *config.Config, logger logging.Logger, opts appOptions) (_ *app, err error) {
	a := &app{cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	if cfg.Metrics.Enabled {
		a.collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return nil, err
		}
		a.metrics = prometheus.NewRegistryMetrics(a.collector)
	}

	engineOpts := []classification.EngineOption{
		classification.WithLogger(logger),
		classification.WithBatchConcurrency(cfg.Classification.BatchConcurrency),
	}
	if a.metrics != nil {
		engineOpts = append(engineOpts, classification.WithObserver(a.metrics))
	}
	a.engine = classification.NewEngine(engineOpts...)

	svcOpts := []classification.ServiceOption{
		classification.WithServiceLogger(logger),
		classification.WithMaxContentBytes(int64(cfg.Classification.MaxContentBytes)),
	}

	if cfg.Redis.Addr != "" {
		client, err := redis.NewClient(cfg.Redis, logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		cacheOpts := []redis.CacheOption{redis.WithDefaultTTL(cfg.Classification.CacheTTL)}
		if a.metrics != nil {
			cacheOpts = append(cacheOpts, redis.WithAccessRecorder(a.metrics))
		}
		cache := redis.NewResultCache(client, logger, cacheOpts...)
		svcOpts = append(svcOpts, classification.WithResultCache(cache))
		a.checkers = append(a.checkers, handlers.CheckFunc("redis", cache.Ping))
	}

	if cfg.Database.Host != "" && cfg.Classification.PersistResults {
		pool, err := postgres.NewConnectionPool(cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error { postgres.Close(pool); return nil })
		var recorder postgres.QueryRecorder
		if a.metrics != nil {
			recorder = a.metrics
		}
		store := postgres.NewResultStore(pool, logger, recorder)
		svcOpts = append(svcOpts, classification.WithRepository(store))
		a.checkers = append(a.checkers, handlers.CheckFunc("postgres", func(ctx context.Context) error {
			return postgres.HealthCheck(ctx, pool, logger)
		}))
	}

	if cfg.MinIO.Endpoint != "" {
		api, err := minio.NewObjectAPI(cfg.MinIO, logger)
		if err != nil {
			return nil, err
		}
		docs := minio.NewDocumentStore(api, cfg.MinIO, logger)
		svcOpts = append(svcOpts, classification.WithDocumentSource(docs))
		a.checkers = append(a.checkers, handlers.CheckFunc("minio", docs.EnsureBucket))
	}

	if opts.publishResults {
		a.producer, err = kafka.NewProducer(kafka.ProducerConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   cfg.Kafka.MaxRetries,
			BatchTimeout: cfg.Kafka.BatchTimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, a.producer.Close)
		svcOpts = append(svcOpts, classification.WithPublisher(
			kafka.NewResultPublisher(a.producer, cfg.Kafka.ResultTopic)))
	}

	a.service = classification.NewService(a.engine, svcOpts...)
	return a, nil
}

// metricsHandler returns the exposition handler, or nil when metrics are off.
func (a *app) metricsHandler() http.Handler {
	if a.collector == nil {
		return nil
	}
	return a.collector.Handler()
}

// Close releases backends in reverse order of creation.
func (a *app) Close() {
	if a == nil {
		return
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("failed to close backend", logging.Err(err))
		}
	}
	a.closers = nil
}

//Personal.AI order the ending

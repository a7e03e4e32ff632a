package cli

import (
	"context"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/RegistryRisk-Intelligence/internal/config"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/infrastructure/monitoring/logging"
	httpapi "github.com/turtacn/RegistryRisk-Intelligence/internal/interfaces/http"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/interfaces/worker"
	"github.com/turtacn/RegistryRisk-Intelligence/pkg/errors"
)

type workerOptions struct {
	ensureTopics   bool
	partitions     int
	replication    int
	handlerTimeout time.Duration
	probeAddr      string
}

// NewWorkerCmd consumes classification requests from kafka.
func NewWorkerCmd() *cobra.Command {
	opts := &workerOptions{}
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Consume classification requests from kafka and publish results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorker(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&opts.ensureTopics, "ensure-topics", false, "create the request, result and dead-letter topics when missing")
	f.IntVar(&opts.partitions, "partitions", 3, "partitions for topics created by --ensure-topics")
	f.IntVar(&opts.replication, "replication", 1, "replication factor for topics created by --ensure-topics")
	f.DurationVar(&opts.handlerTimeout, "handler-timeout", 30*time.Second, "deadline for classifying one request")
	f.StringVar(&opts.probeAddr, "probe-addr", ":9090", "listen address for /healthz, /readyz and /metrics; empty disables")
	return cmd
}

func runWorker(cmd *cobra.Command, opts *workerOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	cfg, logger := cliCtx.Config, cliCtx.Logger

	if opts.ensureTopics {
		if err := ensureTopics(cmd.Context(), cfg.Kafka, opts, logger); err != nil {
			return err
		}
	}

	a, err := buildApp(cfg, logger, appOptions{publishResults: true})
	if err != nil {
		return err
	}
	defer a.Close()

	retry := kafka.RetryConfig{
		MaxRetries:   cfg.Kafka.MaxRetries,
		RetryBackoff: cfg.Kafka.RetryBackoff,
		Retryable:    worker.Retryable,
	}
	consumerOpts := []kafka.ConsumerOption{}
	if cfg.Kafka.EnableDLQ {
		retry.DeadLetterTopic = kafka.DeadLetterTopic(cfg.Kafka.RequestTopic)
		consumerOpts = append(consumerOpts, kafka.WithDeadLetterPublisher(a.producer))
	}
	if a.metrics != nil {
		consumerOpts = append(consumerOpts, kafka.WithMessageRecorder(a.metrics))
	}

	handler := worker.NewRequestHandler(a.service, logger, opts.handlerTimeout)
	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:       cfg.Kafka.Brokers,
		GroupID:       cfg.Kafka.GroupID,
		Topic:         cfg.Kafka.RequestTopic,
		StartFromHead: cfg.Kafka.StartFromHead,
		RetryConfig:   retry,
	}, handler.Handle, logger, consumerOpts...)
	if err != nil {
		return err
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watchLogLevel(cliCtx)

	probeErr := make(chan error, 1)
	if opts.probeAddr != "" {
		probe := httpapi.NewServer(cfg.Server, httpapi.NewRouter(httpapi.RouterConfig{
			HealthHandler:  handlers.NewHealthHandler(Version, a.checkers...),
			MetricsHandler: a.metricsHandler(),
			MetricsPath:    cfg.Metrics.Path,
		}), logger)
		ln, err := net.Listen("tcp", opts.probeAddr)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to listen for probes").WithDetail(opts.probeAddr)
		}
		go func() { probeErr <- probe.Serve(ln) }()
		defer func() { _ = probe.Shutdown(context.Background()) }()
	}

	if err := consumer.Start(ctx); err != nil {
		return err
	}
	logger.Info("regrisk worker started",
		logging.String("request_topic", cfg.Kafka.RequestTopic),
		logging.String("result_topic", cfg.Kafka.ResultTopic),
		logging.Bool("dlq", cfg.Kafka.EnableDLQ),
	)

	select {
	case <-ctx.Done():
	case err := <-probeErr:
		if err != nil {
			logger.Error("probe server failed", logging.Err(err))
			return err
		}
	}
	logger.Info("shutting down worker",
		logging.Int64("consumed", consumer.Metrics().MessagesConsumed.Load()),
		logging.Int64("failed", consumer.Metrics().MessagesFailed.Load()),
	)
	return nil
}

func ensureTopics(ctx context.Context, cfg config.KafkaConfig, opts *workerOptions, logger logging.Logger) error {
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	tm, err := kafka.NewTopicManager(dialCtx, cfg.Brokers, logger)
	if err != nil {
		return err
	}
	defer tm.Close()
	return tm.EnsureTopics(kafka.WorkerTopics(cfg.RequestTopic, cfg.ResultTopic, cfg.EnableDLQ, opts.partitions, opts.replication)...)
}

//Personal.AI order the ending

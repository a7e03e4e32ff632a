package kafka

import (
	"context"
	"fmt"
	"runtime/debug"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/RegistryRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RegistryRisk-Intelligence/pkg/errors"
)

var (
	ErrAlreadyRunning = errors.New(errors.ErrCodeConflict, "consumer already running")
	ErrNoHandler      = errors.New(errors.ErrCodeInternal, "consumer has no handler")
)

// Outcomes passed to MessageRecorder.
const (
	StatusOK         = "ok"
	StatusRetried    = "retry"
	StatusDeadLetter = "dlq"
	StatusDropped    = "dropped"
)

// RetryConfig defines retry behavior.
type RetryConfig struct {
	MaxRetries      int
	RetryBackoff    time.Duration
	MaxRetryBackoff time.Duration
	DeadLetterTopic string
	// Retryable decides whether a failed message is tried again.  Nil retries
	// every error.
	Retryable func(error) bool
}

// ConsumerConfig holds configuration for the Consumer.
type ConsumerConfig struct {
	Brokers       []string
	GroupID       string
	Topic         string
	StartFromHead bool
	RetryConfig   RetryConfig
}

// MessageRecorder receives one call per finished message.
type MessageRecorder interface {
	RecordMessage(topic, status string, duration time.Duration)
}

// ConsumerMetrics holds consumer counters.
type ConsumerMetrics struct {
	MessagesConsumed     atomic.Int64
	MessagesProcessed    atomic.Int64
	MessagesFailed       atomic.Int64
	MessagesRetried      atomic.Int64
	MessagesDeadLettered atomic.Int64
}

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads one topic in a consumer group and hands each message to a
// handler.  Offsets are committed after the handler succeeds or the message
// has been dead-lettered, so a crash replays at most the in-flight message.
type Consumer struct {
	reader     ReaderInterface
	config     ConsumerConfig
	logger     logging.Logger
	handler    Handler
	deadLetter MessagePublisher
	recorder   MessageRecorder

	running atomic.Bool
	closed  atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	metrics *ConsumerMetrics
}

type ConsumerOption func(*Consumer)

// WithDeadLetterPublisher enables the dead-letter path.
func WithDeadLetterPublisher(p MessagePublisher) ConsumerOption {
	return func(c *Consumer) { c.deadLetter = p }
}

func WithMessageRecorder(r MessageRecorder) ConsumerOption {
	return func(c *Consumer) { c.recorder = r }
}

func NewConsumer(cfg ConsumerConfig, handler Handler, logger logging.Logger, opts ...ConsumerOption) (*Consumer, error) {
	if err := ValidateConsumerConfig(cfg); err != nil {
		return nil, err
	}
	start := kafka.LastOffset
	if cfg.StartFromHead {
		start = kafka.FirstOffset
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.GroupID,
		Topic:          cfg.Topic,
		MinBytes:       1,
		MaxBytes:       10 * 1024 * 1024,
		MaxWait:        500 * time.Millisecond,
		StartOffset:    start,
		CommitInterval: 0,
	})
	return newConsumerWithReader(reader, cfg, handler, logger, opts...)
}

func newConsumerWithReader(r ReaderInterface, cfg ConsumerConfig, handler Handler, logger logging.Logger, opts ...ConsumerOption) (*Consumer, error) {
	if handler == nil {
		return nil, ErrNoHandler
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if cfg.RetryConfig.RetryBackoff == 0 {
		cfg.RetryConfig.RetryBackoff = time.Second
	}
	if cfg.RetryConfig.MaxRetryBackoff == 0 {
		cfg.RetryConfig.MaxRetryBackoff = 30 * time.Second
	}
	c := &Consumer{
		reader:  r,
		config:  cfg,
		logger:  logger.Named("kafka-consumer"),
		handler: handler,
		metrics: &ConsumerMetrics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Start runs the consume loop in the background until Close or ctx ends.
func (c *Consumer) Start(ctx context.Context) error {
	if c.closed.Load() || c.running.Swap(true) {
		return ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.wg.Add(1)
	go c.consumeLoop(ctx)

	c.logger.Info("kafka consumer started",
		logging.String("group", c.config.GroupID),
		logging.String("topic", c.config.Topic))
	return nil
}

func (c *Consumer) consumeLoop(ctx context.Context) {
	defer c.wg.Done()
	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("fetch message failed", logging.Err(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		c.metrics.MessagesConsumed.Add(1)

		if err := c.processMessage(ctx, fromKafkaMessage(m)); err != nil {
			// Only cancellation lands here; leave the offset so the message
			// is redelivered.
			return
		}
		if err := c.reader.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
			c.logger.Error("commit failed", logging.Err(err), logging.Int64("offset", m.Offset))
		}
	}
}

// processMessage returns an error only when ctx was cancelled mid-retry.
func (c *Consumer) processMessage(ctx context.Context, msg *Message) error {
	start := time.Now()
	retry := c.config.RetryConfig
	backoff := retry.RetryBackoff

	err := c.invoke(ctx, msg)
	attempts := 1
	for err != nil && attempts <= retry.MaxRetries && c.retryable(err) {
		c.metrics.MessagesRetried.Add(1)
		c.record(msg.Topic, StatusRetried, time.Since(start))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, retry.MaxRetryBackoff)
		err = c.invoke(ctx, msg)
		attempts++
	}

	if err == nil {
		c.metrics.MessagesProcessed.Add(1)
		c.record(msg.Topic, StatusOK, time.Since(start))
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	c.metrics.MessagesFailed.Add(1)
	c.logger.Error("message processing failed",
		logging.String("topic", msg.Topic),
		logging.Int64("offset", msg.Offset),
		logging.Int("attempts", attempts),
		logging.Err(err))

	if c.deadLetter == nil || retry.DeadLetterTopic == "" {
		c.record(msg.Topic, StatusDropped, time.Since(start))
		return nil
	}

	headers := make(map[string]string, len(msg.Headers)+4)
	for k, v := range msg.Headers {
		headers[k] = v
	}
	headers[HeaderOriginalTopic] = msg.Topic
	headers[HeaderErrorMessage] = err.Error()
	headers[HeaderErrorCode] = string(errors.GetCode(err))
	headers[HeaderAttempts] = strconv.Itoa(attempts)

	dlq := &ProducerMessage{Topic: retry.DeadLetterTopic, Key: msg.Key, Value: msg.Value, Headers: headers}
	if dlErr := c.deadLetter.Publish(ctx, dlq); dlErr != nil {
		c.logger.Error("failed to send to dead letter topic", logging.Err(dlErr))
		c.record(msg.Topic, StatusDropped, time.Since(start))
		return nil
	}
	c.metrics.MessagesDeadLettered.Add(1)
	c.record(msg.Topic, StatusDeadLetter, time.Since(start))
	return nil
}

// invoke runs the handler and turns a panic into an ErrCodeMessagePoisoned
// error, which is never retried.
func (c *Consumer) invoke(ctx context.Context, msg *Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("message handler panicked",
				logging.String("topic", msg.Topic),
				logging.Int64("offset", msg.Offset),
				logging.Any("panic", r),
				logging.String("stack", string(debug.Stack())))
			err = errors.New(errors.ErrCodeMessagePoisoned, "message handler panicked").
				WithDetail(fmt.Sprint(r))
		}
	}()
	return c.handler(ctx, msg)
}

func (c *Consumer) retryable(err error) bool {
	if errors.IsCode(err, errors.ErrCodeMessagePoisoned) {
		return false
	}
	if c.config.RetryConfig.Retryable == nil {
		return true
	}
	return c.config.RetryConfig.Retryable(err)
}

func (c *Consumer) record(topic, status string, d time.Duration) {
	if c.recorder != nil {
		c.recorder.RecordMessage(topic, status, d)
	}
}

// Metrics returns the live counters.
func (c *Consumer) Metrics() *ConsumerMetrics { return c.metrics }

// Close stops the loop, waits for the in-flight message, and closes the reader.
func (c *Consumer) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	if c.running.CompareAndSwap(true, false) && c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	err := c.reader.Close()
	c.logger.Info("kafka consumer closed",
		logging.Int64("consumed", c.metrics.MessagesConsumed.Load()),
		logging.Int64("dead_lettered", c.metrics.MessagesDeadLettered.Load()))
	return err
}

func fromKafkaMessage(m kafka.Message) *Message {
	msg := &Message{
		Topic:     m.Topic,
		Partition: m.Partition,
		Offset:    m.Offset,
		Key:       m.Key,
		Value:     m.Value,
		Timestamp: m.Time,
		Headers:   make(map[string]string, len(m.Headers)),
	}
	for _, h := range m.Headers {
		msg.Headers[h.Key] = string(h.Value)
	}
	return msg
}

func ValidateConsumerConfig(cfg ConsumerConfig) error {
	if len(cfg.Brokers) == 0 {
		return errors.New(errors.ErrCodeValidation, "brokers required")
	}
	if cfg.GroupID == "" {
		return errors.New(errors.ErrCodeValidation, "group id required")
	}
	if cfg.Topic == "" {
		return errors.New(errors.ErrCodeValidation, "topic required")
	}
	if cfg.RetryConfig.MaxRetries < 0 {
		return errors.New(errors.ErrCodeValidation, "max retries must be >= 0")
	}
	if cfg.RetryConfig.DeadLetterTopic == cfg.Topic {
		return errors.New(errors.ErrCodeValidation, "dead letter topic must differ from the consumed topic")
	}
	return nil
}

//Personal.AI order the ending

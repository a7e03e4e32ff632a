package kafka

import (
	"context"
	stderrors "errors"
	"net"
	"strconv"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/RegistryRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RegistryRisk-Intelligence/pkg/errors"
)

// TopicSpec describes one topic to provision.
type TopicSpec struct {
	Name              string
	NumPartitions     int
	ReplicationFactor int
}

// ConnInterface abstracts kafka.Conn for testing.
type ConnInterface interface {
	CreateTopics(topics ...kafka.TopicConfig) error
	Close() error
}

// TopicManager provisions the topics the worker reads and writes.
type TopicManager struct {
	conn   ConnInterface
	logger logging.Logger
}

// NewTopicManager connects to the cluster controller through the first broker.
func NewTopicManager(ctx context.Context, brokers []string, logger logging.Logger) (*TopicManager, error) {
	if len(brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "brokers required")
	}
	conn, err := kafka.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeMessagingError, "failed to dial kafka")
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeMessagingError, "failed to locate controller")
	}
	ctrl, err := kafka.DialContext(ctx, "tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeMessagingError, "failed to dial controller")
	}
	return newTopicManagerWithConn(ctrl, logger), nil
}

func newTopicManagerWithConn(conn ConnInterface, logger logging.Logger) *TopicManager {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &TopicManager{conn: conn, logger: logger.Named("kafka-topics")}
}

// EnsureTopics creates every missing topic; existing ones are left alone.
func (m *TopicManager) EnsureTopics(specs ...TopicSpec) error {
	for _, spec := range specs {
		if spec.Name == "" {
			return errors.New(errors.ErrCodeValidation, "topic name required")
		}
		if spec.NumPartitions <= 0 {
			spec.NumPartitions = 1
		}
		if spec.ReplicationFactor <= 0 {
			spec.ReplicationFactor = 1
		}
		err := m.conn.CreateTopics(kafka.TopicConfig{
			Topic:             spec.Name,
			NumPartitions:     spec.NumPartitions,
			ReplicationFactor: spec.ReplicationFactor,
		})
		switch {
		case err == nil:
			m.logger.Info("topic created", logging.String("topic", spec.Name), logging.Int("partitions", spec.NumPartitions))
		case stderrors.Is(err, kafka.TopicAlreadyExists):
			m.logger.Debug("topic exists", logging.String("topic", spec.Name))
		default:
			return errors.Wrap(err, errors.ErrCodeMessagingError, "create topic").WithDetail(spec.Name)
		}
	}
	return nil
}

// WorkerTopics lists the request, result and optional dead-letter topics.
func WorkerTopics(requestTopic, resultTopic string, withDLQ bool, partitions, replication int) []TopicSpec {
	names := []string{requestTopic, resultTopic}
	if withDLQ {
		names = append(names, DeadLetterTopic(requestTopic))
	}
	specs := make([]TopicSpec, 0, len(names))
	for _, n := range names {
		specs = append(specs, TopicSpec{Name: n, NumPartitions: partitions, ReplicationFactor: replication})
	}
	return specs
}

func (m *TopicManager) Close() error { return m.conn.Close() }

//Personal.AI order the ending

package kafka

import (
	"context"

	"github.com/turtacn/RegistryRisk-Intelligence/internal/domain/registry"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/infrastructure/monitoring/logging"
)

// MessagePublisher is the write side used by ResultPublisher and the
// consumer's dead-letter path.
type MessagePublisher interface {
	Publish(ctx context.Context, msg *ProducerMessage) error
}

// ResultPublisher announces finished classifications on the result topic,
// keyed by record id.
type ResultPublisher struct {
	producer MessagePublisher
	topic    string
}

func NewResultPublisher(producer MessagePublisher, topic string) *ResultPublisher {
	return &ResultPublisher{producer: producer, topic: topic}
}

func (p *ResultPublisher) Publish(ctx context.Context, rec registry.ClassificationRecord) error {
	env, err := NewEventEnvelope(EventClassificationCompleted, rec)
	if err != nil {
		return err
	}
	env.TraceID = logging.RequestIDFrom(ctx)
	if rec.RequestID != "" {
		env.Metadata = map[string]string{"request_id": rec.RequestID}
	}
	msg, err := env.ToMessage(p.topic, []byte(rec.ID))
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, msg)
}

//Personal.AI order the ending

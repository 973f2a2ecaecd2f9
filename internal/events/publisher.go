package events

import (
	"context"
	"encoding/json"
	"fmt"

	"quizforge/internal/domain"
	"quizforge/internal/logger"
	"quizforge/internal/util"

	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// Event type metadata values carried on every published message. The
// notification worker dispatches on them.
const (
	EventTypeMetadataKey = "event_type"

	EventTypeSubmissionGraded = "submission.graded"
	EventTypeUserRegistered   = "user.registered"
)

// KafkaEventPublisher implements domain.EventPublisher using Watermill
// with Kafka.
type KafkaEventPublisher struct {
	publisher message.Publisher
	topic     string
}

// PublisherConfig holds configuration for the event publisher.
type PublisherConfig struct {
	Brokers []string
	Topic   string
}

// NewKafkaEventPublisher creates a new Kafka-based event publisher.
func NewKafkaEventPublisher(cfg PublisherConfig) (*KafkaEventPublisher, error) {
	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   cfg.Brokers,
		Marshaler: kafka.DefaultMarshaler{},
	}, NewZapLoggerAdapter(logger.Get()))
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}

	return &KafkaEventPublisher{
		publisher: publisher,
		topic:     cfg.Topic,
	}, nil
}

func (p *KafkaEventPublisher) publish(eventType string, payload interface{}) error {
	eventBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	msg := message.NewMessage(util.NewULID(), eventBytes)
	msg.Metadata.Set(EventTypeMetadataKey, eventType)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}

	logger.Get().Info("published event",
		zap.String("event_type", eventType),
		zap.String("topic", p.topic))
	return nil
}

// PublishSubmissionGraded publishes a creator notification event.
func (p *KafkaEventPublisher) PublishSubmissionGraded(_ context.Context, event *domain.SubmissionGradedEvent) error {
	return p.publish(EventTypeSubmissionGraded, event)
}

// PublishUserRegistered publishes a welcome-email trigger event.
func (p *KafkaEventPublisher) PublishUserRegistered(_ context.Context, event *domain.UserRegisteredEvent) error {
	return p.publish(EventTypeUserRegistered, event)
}

// Close closes the underlying publisher.
func (p *KafkaEventPublisher) Close() error {
	return p.publisher.Close()
}

package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"quizforge/internal/domain"
	"quizforge/internal/events"
	"quizforge/internal/logger"

	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// Worker consumes notification events from Kafka and turns them into
// emails. Email failures are logged and the message is acked anyway:
// a lost notification must never wedge the stream.
type Worker struct {
	subscriber message.Subscriber
	sender     EmailSender
	topic      string
}

// WorkerConfig holds configuration for the notification worker.
type WorkerConfig struct {
	Brokers       []string
	Topic         string
	ConsumerGroup string
}

// NewWorker creates a Kafka-backed notification worker.
func NewWorker(cfg WorkerConfig, sender EmailSender) (*Worker, error) {
	saramaConfig := kafka.DefaultSaramaSubscriberConfig()
	subscriber, err := kafka.NewSubscriber(kafka.SubscriberConfig{
		Brokers:               cfg.Brokers,
		Unmarshaler:           kafka.DefaultMarshaler{},
		OverwriteSaramaConfig: saramaConfig,
		ConsumerGroup:         cfg.ConsumerGroup,
	}, events.NewZapLoggerAdapter(logger.Get()))
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka subscriber: %w", err)
	}

	return &Worker{
		subscriber: subscriber,
		sender:     sender,
		topic:      cfg.Topic,
	}, nil
}

// Run consumes events until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	messages, err := w.subscriber.Subscribe(ctx, w.topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", w.topic, err)
	}

	logger.Get().Info("notification worker started", zap.String("topic", w.topic))
	for msg := range messages {
		w.handle(msg)
		msg.Ack()
	}
	return nil
}

// Close shuts the subscriber down.
func (w *Worker) Close() error {
	return w.subscriber.Close()
}

func (w *Worker) handle(msg *message.Message) {
	l := logger.Get()
	eventType := msg.Metadata.Get(events.EventTypeMetadataKey)

	var err error
	switch eventType {
	case events.EventTypeSubmissionGraded:
		err = w.handleSubmissionGraded(msg.Payload)
	case events.EventTypeUserRegistered:
		err = w.handleUserRegistered(msg.Payload)
	default:
		l.Warn("unknown event type, skipping",
			zap.String("event_type", eventType),
			zap.String("message_id", msg.UUID))
		return
	}

	if err != nil {
		l.Error("failed to handle notification event",
			zap.String("event_type", eventType),
			zap.String("message_id", msg.UUID),
			zap.Error(err))
	}
}

func (w *Worker) handleSubmissionGraded(payload []byte) error {
	var event domain.SubmissionGradedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("failed to unmarshal submission graded event: %w", err)
	}

	subject := fmt.Sprintf("New submission for %q", event.QuizName)
	body := fmt.Sprintf(
		"%s just completed your quiz %q with a score of %.2f.\n",
		event.ParticipantName, event.QuizName, event.TotalScore)
	return w.sender.Send(event.CreatorEmail, subject, body)
}

func (w *Worker) handleUserRegistered(payload []byte) error {
	var event domain.UserRegisteredEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("failed to unmarshal user registered event: %w", err)
	}

	subject := "Welcome to QuizForge"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour account is ready. Create your first quiz and share it with your learners.\n",
		event.Username)
	return w.sender.Send(event.Email, subject, body)
}

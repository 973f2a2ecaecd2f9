package domain

import (
	"context"
	"time"
)

// SubmissionGradedEvent notifies a quiz creator that a participant's
// submission was graded. Delivery is fire-and-forget: a publish failure
// is logged and swallowed, never surfaced to the submitter.
type SubmissionGradedEvent struct {
	QuizID          string    `json:"quiz_id"`
	QuizName        string    `json:"quiz_name"`
	ParticipantName string    `json:"participant_name"`
	TotalScore      float64   `json:"total_score"`
	CreatorEmail    string    `json:"creator_email"`
	GradedAt        time.Time `json:"graded_at"`
}

// UserRegisteredEvent triggers the welcome email for a new user.
type UserRegisteredEvent struct {
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registered_at"`
}

// EventPublisher is the port for the asynchronous notification
// pipeline.
type EventPublisher interface {
	PublishSubmissionGraded(ctx context.Context, event *SubmissionGradedEvent) error
	PublishUserRegistered(ctx context.Context, event *UserRegisteredEvent) error
	Close() error
}

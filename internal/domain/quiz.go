package domain

import (
	"time"
)

// Quiz is the aggregate root: a named set of questions owned by one
// creator. The creator is fixed at creation time and never reassigned.
type Quiz struct {
	ID        string
	Name      string
	CreatorID string
	Questions []*Question
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewQuiz creates a new Quiz instance
func NewQuiz(name, creatorID string) *Quiz {
	now := time.Now()
	return &Quiz{
		Name:      name,
		CreatorID: creatorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate validates the quiz
func (q *Quiz) Validate() error {
	if q.Name == "" {
		return NewValidationError("name is required")
	}
	if q.CreatorID == "" {
		return NewValidationError("creator is required")
	}
	return nil
}

// TotalScore sums the score weights of all questions.
func (q *Quiz) TotalScore() float64 {
	var total float64
	for _, question := range q.Questions {
		total += question.Score
	}
	return total
}

// QuestionIDSet returns the set of persisted question IDs.
func (q *Quiz) QuestionIDSet() map[string]bool {
	ids := make(map[string]bool, len(q.Questions))
	for _, question := range q.Questions {
		ids[question.ID] = true
	}
	return ids
}

// Question belongs to exactly one quiz. Open-ended questions own zero
// template answers; multiple-choice questions own the candidate answers.
type Question struct {
	ID        string
	QuizID    string
	Text      string
	Score     float64
	Answers   []*Answer
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate validates the question
func (q *Question) Validate() error {
	if q.Text == "" {
		return NewValidationError("question text is required")
	}
	if q.Score <= 0 {
		return NewValidationError("question score must be positive")
	}
	return nil
}

// Answer is a quiz-author-authored candidate answer with a correctness
// flag, distinct from a learner's submitted answer.
type Answer struct {
	ID         string
	QuestionID string
	Text       string
	Correct    bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate validates the template answer
func (a *Answer) Validate() error {
	if a.Text == "" {
		return NewValidationError("answer text is required")
	}
	return nil
}

// QuizTarget is a client-submitted quiz tree for reconciliation. Child
// entries carrying an ID mean "keep and update this one"; entries
// without an ID mean "create new". Persisted children whose IDs are not
// mentioned are deleted.
type QuizTarget struct {
	Name      string
	Questions []QuestionTarget
}

// QuestionTarget is one question entry of a target tree.
type QuestionTarget struct {
	ID      string // empty means create
	Text    string
	Score   float64
	Answers []AnswerTarget
}

// AnswerTarget is one template-answer entry of a target tree.
type AnswerTarget struct {
	ID      string // empty means create
	Text    string
	Correct bool
}

// Validate validates the whole target tree.
func (t *QuizTarget) Validate() error {
	if t.Name == "" {
		return NewValidationError("name is required")
	}
	for _, q := range t.Questions {
		if q.Text == "" {
			return NewValidationError("question text is required")
		}
		if q.Score <= 0 {
			return NewValidationError("question score must be positive")
		}
		for _, a := range q.Answers {
			if a.Text == "" {
				return NewValidationError("answer text is required")
			}
		}
	}
	return nil
}

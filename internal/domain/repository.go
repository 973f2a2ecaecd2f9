package domain

import "context"

// QuizRepository defines the interface for quiz tree persistence. The
// reconciler drives the fine-grained operations; read paths use the
// tree loaders.
type QuizRepository interface {
	// GetQuizByID retrieves the quiz row without its children.
	GetQuizByID(ctx context.Context, id string) (*Quiz, error)

	// GetQuizTree retrieves a quiz with its questions and template
	// answers loaded.
	GetQuizTree(ctx context.Context, id string) (*Quiz, error)

	// CreateQuiz persists a new quiz row.
	CreateQuiz(ctx context.Context, quiz *Quiz) error

	// UpdateQuiz updates the quiz's own scalar fields (name).
	UpdateQuiz(ctx context.Context, quiz *Quiz) error

	// DeleteQuiz deletes a quiz; children cascade.
	DeleteQuiz(ctx context.Context, id string) error

	// CreateQuestion persists a new question attached to its quiz.
	CreateQuestion(ctx context.Context, question *Question) error

	// UpdateQuestion updates a question's scalar fields in place.
	UpdateQuestion(ctx context.Context, question *Question) error

	// DeleteQuestions deletes questions by ID; template answers cascade.
	DeleteQuestions(ctx context.Context, ids []string) error

	// GetQuestionByID retrieves a single question row, nil when absent.
	GetQuestionByID(ctx context.Context, id string) (*Question, error)

	// CreateAnswers bulk-inserts template answers.
	CreateAnswers(ctx context.Context, answers []*Answer) error

	// UpdateAnswer updates a template answer's scalar fields in place.
	UpdateAnswer(ctx context.Context, answer *Answer) error

	// DeleteAnswers deletes template answers by ID.
	DeleteAnswers(ctx context.Context, ids []string) error
}

// SubmissionRepository defines the interface for graded submissions:
// learner answers, score rows and the creator-facing aggregations.
type SubmissionRepository interface {
	// GetQuizScore returns the score row for (quiz, identity), nil when
	// the pair has not submitted yet.
	GetQuizScore(ctx context.Context, quizID string, identity Identity) (*QuizScore, error)

	// CreateQuizScore inserts the single score row for (quiz, identity).
	// A unique-constraint violation signals a duplicate submission.
	CreateQuizScore(ctx context.Context, score *QuizScore) error

	// CreateUserAnswers bulk-inserts graded answers.
	CreateUserAnswers(ctx context.Context, answers []*UserAnswer) error

	// CountParticipants counts distinct identities that answered any
	// question of the quiz.
	CountParticipants(ctx context.Context, quizID string) (int, error)

	// GetHardestQuestions returns per-question incorrect percentages,
	// hardest first.
	GetHardestQuestions(ctx context.Context, quizID string) ([]QuestionDifficulty, error)

	// GetParticipants returns every identity that took the quiz with
	// their graded answers.
	GetParticipants(ctx context.Context, quizID string) ([]Participant, error)
}

// TransactionManager runs a function inside one database transaction.
// The transactional executor travels in the context; on error the whole
// transaction rolls back and no partial writes are visible.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

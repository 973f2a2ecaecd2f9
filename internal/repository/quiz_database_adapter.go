package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quizforge/internal/domain"
	"quizforge/internal/repository/models"
	"quizforge/internal/util"

	"github.com/jmoiron/sqlx"
)

// QuizDatabaseAdapter implements domain.QuizRepository on Oracle. All
// writes resolve their executor through GetExecutor so the reconciler
// can drive them inside one transaction.
type QuizDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuizDatabaseAdapter creates a new Oracle-backed quiz repository.
func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

const quizColumns = `id "id", name "name", creator_id "creator_id", created_at "created_at", updated_at "updated_at"`

// GetQuizByID retrieves the quiz row without its children.
func (a *QuizDatabaseAdapter) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	exec := GetExecutor(ctx, a.db)
	query := fmt.Sprintf(`SELECT %s FROM quizzes WHERE id = :1`, quizColumns)

	var row models.Quiz
	if err := exec.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewQuizNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to get quiz %s: %w", id, err)
	}
	return row.ToDomain(), nil
}

// GetQuizTree retrieves a quiz with its questions and template answers
// loaded, children ordered by creation time.
func (a *QuizDatabaseAdapter) GetQuizTree(ctx context.Context, id string) (*domain.Quiz, error) {
	quiz, err := a.GetQuizByID(ctx, id)
	if err != nil {
		return nil, err
	}

	exec := GetExecutor(ctx, a.db)

	var questionRows []models.Question
	questionQuery := `SELECT id "id", quiz_id "quiz_id", question "question", score "score",
		created_at "created_at", updated_at "updated_at"
		FROM questions WHERE quiz_id = :1 ORDER BY created_at, id`
	if err := exec.SelectContext(ctx, &questionRows, questionQuery, id); err != nil {
		return nil, fmt.Errorf("failed to get questions for quiz %s: %w", id, err)
	}

	var answerRows []models.Answer
	answerQuery := `SELECT a.id "id", a.question_id "question_id", a.answer "answer", a.correct "correct",
		a.created_at "created_at", a.updated_at "updated_at"
		FROM answers a
		JOIN questions q ON a.question_id = q.id
		WHERE q.quiz_id = :1 ORDER BY a.created_at, a.id`
	if err := exec.SelectContext(ctx, &answerRows, answerQuery, id); err != nil {
		return nil, fmt.Errorf("failed to get answers for quiz %s: %w", id, err)
	}

	answersByQuestion := make(map[string][]*domain.Answer, len(questionRows))
	for i := range answerRows {
		answer := answerRows[i].ToDomain()
		answersByQuestion[answer.QuestionID] = append(answersByQuestion[answer.QuestionID], answer)
	}

	quiz.Questions = make([]*domain.Question, 0, len(questionRows))
	for i := range questionRows {
		question := questionRows[i].ToDomain()
		question.Answers = answersByQuestion[question.ID]
		quiz.Questions = append(quiz.Questions, question)
	}
	return quiz, nil
}

// CreateQuiz persists a new quiz row.
func (a *QuizDatabaseAdapter) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	exec := GetExecutor(ctx, a.db)
	row := models.QuizFromDomain(quiz)
	query := `INSERT INTO quizzes (id, name, creator_id, created_at, updated_at)
		VALUES (:1, :2, :3, :4, :5)`
	if _, err := exec.ExecContext(ctx, query,
		row.ID, row.Name, row.CreatorID, row.CreatedAt, row.UpdatedAt); err != nil {
		if util.IsForeignKeyViolation(err) {
			return domain.NewDatabaseIntegrityError(err)
		}
		return fmt.Errorf("failed to create quiz: %w", err)
	}
	return nil
}

// UpdateQuiz updates the quiz's own scalar fields.
func (a *QuizDatabaseAdapter) UpdateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	exec := GetExecutor(ctx, a.db)
	query := `UPDATE quizzes SET name = :1, updated_at = :2 WHERE id = :3`
	result, err := exec.ExecContext(ctx, query, quiz.Name, quiz.UpdatedAt, quiz.ID)
	if err != nil {
		return fmt.Errorf("failed to update quiz %s: %w", quiz.ID, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return domain.NewQuizNotFoundError(quiz.ID)
	}
	return nil
}

// DeleteQuiz deletes a quiz; questions and answers cascade.
func (a *QuizDatabaseAdapter) DeleteQuiz(ctx context.Context, id string) error {
	exec := GetExecutor(ctx, a.db)
	result, err := exec.ExecContext(ctx, `DELETE FROM quizzes WHERE id = :1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete quiz %s: %w", id, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return domain.NewQuizNotFoundError(id)
	}
	return nil
}

// CreateQuestion persists a new question attached to its quiz.
func (a *QuizDatabaseAdapter) CreateQuestion(ctx context.Context, question *domain.Question) error {
	exec := GetExecutor(ctx, a.db)
	row := models.QuestionFromDomain(question)
	query := `INSERT INTO questions (id, quiz_id, question, score, created_at, updated_at)
		VALUES (:1, :2, :3, :4, :5, :6)`
	if _, err := exec.ExecContext(ctx, query,
		row.ID, row.QuizID, row.Question, row.Score, row.CreatedAt, row.UpdatedAt); err != nil {
		if util.IsForeignKeyViolation(err) {
			return domain.NewDatabaseIntegrityError(err)
		}
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

// UpdateQuestion updates a question's scalar fields in place.
func (a *QuizDatabaseAdapter) UpdateQuestion(ctx context.Context, question *domain.Question) error {
	exec := GetExecutor(ctx, a.db)
	query := `UPDATE questions SET question = :1, score = :2, updated_at = :3 WHERE id = :4`
	result, err := exec.ExecContext(ctx, query,
		question.Text, question.Score, question.UpdatedAt, question.ID)
	if err != nil {
		return fmt.Errorf("failed to update question %s: %w", question.ID, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return domain.NewQuestionNotFoundError(question.ID)
	}
	return nil
}

// DeleteQuestions deletes questions by ID; template answers and graded
// answers cascade.
func (a *QuizDatabaseAdapter) DeleteQuestions(ctx context.Context, ids []string) error {
	exec := GetExecutor(ctx, a.db)
	for _, id := range ids {
		if _, err := exec.ExecContext(ctx, `DELETE FROM questions WHERE id = :1`, id); err != nil {
			return fmt.Errorf("failed to delete question %s: %w", id, err)
		}
	}
	return nil
}

// GetQuestionByID retrieves a single question row, nil when absent.
func (a *QuizDatabaseAdapter) GetQuestionByID(ctx context.Context, id string) (*domain.Question, error) {
	exec := GetExecutor(ctx, a.db)
	query := `SELECT id "id", quiz_id "quiz_id", question "question", score "score",
		created_at "created_at", updated_at "updated_at"
		FROM questions WHERE id = :1`

	var row models.Question
	if err := exec.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question %s: %w", id, err)
	}
	return row.ToDomain(), nil
}

// CreateAnswers inserts template answers one statement per row; the
// caller's transaction keeps the batch atomic.
func (a *QuizDatabaseAdapter) CreateAnswers(ctx context.Context, answers []*domain.Answer) error {
	exec := GetExecutor(ctx, a.db)
	query := `INSERT INTO answers (id, question_id, answer, correct, created_at, updated_at)
		VALUES (:1, :2, :3, :4, :5, :6)`
	for _, answer := range answers {
		row := models.AnswerFromDomain(answer)
		if _, err := exec.ExecContext(ctx, query,
			row.ID, row.QuestionID, row.Answer, row.Correct, row.CreatedAt, row.UpdatedAt); err != nil {
			if util.IsForeignKeyViolation(err) {
				return domain.NewDatabaseIntegrityError(err)
			}
			return fmt.Errorf("failed to create answer for question %s: %w", answer.QuestionID, err)
		}
	}
	return nil
}

// UpdateAnswer updates a template answer's scalar fields in place.
func (a *QuizDatabaseAdapter) UpdateAnswer(ctx context.Context, answer *domain.Answer) error {
	exec := GetExecutor(ctx, a.db)
	row := models.AnswerFromDomain(answer)
	query := `UPDATE answers SET answer = :1, correct = :2, updated_at = :3 WHERE id = :4`
	result, err := exec.ExecContext(ctx, query, row.Answer, row.Correct, row.UpdatedAt, row.ID)
	if err != nil {
		return fmt.Errorf("failed to update answer %s: %w", answer.ID, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return domain.NewNotFoundError(fmt.Sprintf("answer not found with ID: %s", answer.ID))
	}
	return nil
}

// DeleteAnswers deletes template answers by ID.
func (a *QuizDatabaseAdapter) DeleteAnswers(ctx context.Context, ids []string) error {
	exec := GetExecutor(ctx, a.db)
	for _, id := range ids {
		if _, err := exec.ExecContext(ctx, `DELETE FROM answers WHERE id = :1`, id); err != nil {
			return fmt.Errorf("failed to delete answer %s: %w", id, err)
		}
	}
	return nil
}

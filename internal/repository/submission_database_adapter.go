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

// SubmissionDatabaseAdapter implements domain.SubmissionRepository on
// Oracle. The composite unique indexes on quiz_scores and user_answers
// are the authoritative duplicate guard; ORA-00001 surfaces here as a
// duplicate-submission domain error.
type SubmissionDatabaseAdapter struct {
	db *sqlx.DB
}

// NewSubmissionDatabaseAdapter creates a new Oracle-backed submission repository.
func NewSubmissionDatabaseAdapter(db *sqlx.DB) domain.SubmissionRepository {
	return &SubmissionDatabaseAdapter{db: db}
}

const quizScoreColumns = `id "id", quiz_id "quiz_id", user_id "user_id", guest_label "guest_label", score "score", created_at "created_at"`

// GetQuizScore returns the score row for (quiz, identity), nil when the
// pair has not submitted yet.
func (a *SubmissionDatabaseAdapter) GetQuizScore(ctx context.Context, quizID string, identity domain.Identity) (*domain.QuizScore, error) {
	exec := GetExecutor(ctx, a.db)

	var query string
	var arg string
	if label, ok := identity.GuestLabel(); ok {
		query = fmt.Sprintf(`SELECT %s FROM quiz_scores WHERE quiz_id = :1 AND guest_label = :2`, quizScoreColumns)
		arg = label
	} else {
		userID, _ := identity.UserID()
		query = fmt.Sprintf(`SELECT %s FROM quiz_scores WHERE quiz_id = :1 AND user_id = :2`, quizScoreColumns)
		arg = userID
	}

	var row models.QuizScore
	if err := exec.GetContext(ctx, &row, query, quizID, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz score for quiz %s: %w", quizID, err)
	}
	return row.ToDomain(), nil
}

// CreateQuizScore inserts the single score row for (quiz, identity).
func (a *SubmissionDatabaseAdapter) CreateQuizScore(ctx context.Context, score *domain.QuizScore) error {
	exec := GetExecutor(ctx, a.db)
	row := models.QuizScoreFromDomain(score)
	query := `INSERT INTO quiz_scores (id, quiz_id, user_id, guest_label, score, created_at)
		VALUES (:1, :2, :3, :4, :5, :6)`
	if _, err := exec.ExecContext(ctx, query,
		row.ID, row.QuizID, row.UserID, row.GuestLabel, row.Score, row.CreatedAt); err != nil {
		if util.IsUniqueViolation(err) {
			return domain.NewDuplicateSubmissionError(score.QuizID)
		}
		if util.IsForeignKeyViolation(err) {
			return domain.NewDatabaseIntegrityError(err)
		}
		return fmt.Errorf("failed to create quiz score: %w", err)
	}
	return nil
}

// CreateUserAnswers inserts graded answers one statement per row; the
// caller's transaction keeps the batch atomic.
func (a *SubmissionDatabaseAdapter) CreateUserAnswers(ctx context.Context, answers []*domain.UserAnswer) error {
	exec := GetExecutor(ctx, a.db)
	query := `INSERT INTO user_answers (id, question_id, user_id, guest_label, answer, correct, explanation, created_at)
		VALUES (:1, :2, :3, :4, :5, :6, :7, :8)`
	for _, answer := range answers {
		row := models.UserAnswerFromDomain(answer)
		if _, err := exec.ExecContext(ctx, query,
			row.ID, row.QuestionID, row.UserID, row.GuestLabel,
			row.Answer, row.Correct, row.Explanation, row.CreatedAt); err != nil {
			if util.IsUniqueViolation(err) {
				return domain.NewDuplicateSubmissionError(answer.QuestionID)
			}
			if util.IsForeignKeyViolation(err) {
				return domain.NewDatabaseIntegrityError(err)
			}
			return fmt.Errorf("failed to create user answer for question %s: %w", answer.QuestionID, err)
		}
	}
	return nil
}

// CountParticipants counts identities that submitted the quiz. Score
// rows are written atomically with graded answers, so counting them is
// counting participants.
func (a *SubmissionDatabaseAdapter) CountParticipants(ctx context.Context, quizID string) (int, error) {
	exec := GetExecutor(ctx, a.db)
	var count int
	query := `SELECT COUNT(*) FROM quiz_scores WHERE quiz_id = :1`
	if err := exec.GetContext(ctx, &count, query, quizID); err != nil {
		return 0, fmt.Errorf("failed to count participants for quiz %s: %w", quizID, err)
	}
	return count, nil
}

// GetHardestQuestions returns per-question incorrect percentages,
// hardest first. Questions with no graded answers are omitted.
func (a *SubmissionDatabaseAdapter) GetHardestQuestions(ctx context.Context, quizID string) ([]domain.QuestionDifficulty, error) {
	exec := GetExecutor(ctx, a.db)
	query := `SELECT q.question "question",
		ROUND(100 * SUM(CASE WHEN ua.correct = 0 THEN 1 ELSE 0 END) / COUNT(*), 2) "incorrect_percentage"
		FROM user_answers ua
		JOIN questions q ON ua.question_id = q.id
		WHERE q.quiz_id = :1
		GROUP BY q.id, q.question
		ORDER BY "incorrect_percentage" DESC`

	var rows []struct {
		Question            string  `db:"question"`
		IncorrectPercentage float64 `db:"incorrect_percentage"`
	}
	if err := exec.SelectContext(ctx, &rows, query, quizID); err != nil {
		return nil, fmt.Errorf("failed to get hardest questions for quiz %s: %w", quizID, err)
	}

	difficulties := make([]domain.QuestionDifficulty, 0, len(rows))
	for _, row := range rows {
		difficulties = append(difficulties, domain.QuestionDifficulty{
			QuestionText:        row.Question,
			IncorrectPercentage: row.IncorrectPercentage,
		})
	}
	return difficulties, nil
}

// GetParticipants returns every identity that took the quiz with their
// graded answers, grouped per identity.
func (a *SubmissionDatabaseAdapter) GetParticipants(ctx context.Context, quizID string) ([]domain.Participant, error) {
	exec := GetExecutor(ctx, a.db)
	query := `SELECT ua.id "id", ua.question_id "question_id", ua.user_id "user_id",
		ua.guest_label "guest_label", ua.answer "answer", ua.correct "correct",
		ua.explanation "explanation", ua.created_at "created_at"
		FROM user_answers ua
		JOIN questions q ON ua.question_id = q.id
		WHERE q.quiz_id = :1
		ORDER BY ua.user_id, ua.guest_label, ua.created_at`

	var rows []models.UserAnswer
	if err := exec.SelectContext(ctx, &rows, query, quizID); err != nil {
		return nil, fmt.Errorf("failed to get participants for quiz %s: %w", quizID, err)
	}

	var participants []domain.Participant
	indexByIdentity := make(map[domain.Identity]int)
	for i := range rows {
		answer := rows[i].ToDomain()
		idx, ok := indexByIdentity[answer.Identity]
		if !ok {
			participants = append(participants, domain.Participant{Identity: answer.Identity})
			idx = len(participants) - 1
			indexByIdentity[answer.Identity] = idx
		}
		participants[idx].Answers = append(participants[idx].Answers, answer)
	}
	return participants, nil
}

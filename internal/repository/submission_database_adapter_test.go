package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"quizforge/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "oracle"), mock
}

func TestGetQuizScoreReturnsNilWhenAbsent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubmissionDatabaseAdapter(db)

	mock.ExpectQuery(`SELECT (.+) FROM quiz_scores WHERE quiz_id = :1 AND user_id = :2`).
		WithArgs("quiz1", "user1").
		WillReturnError(sql.ErrNoRows)

	score, err := repo.GetQuizScore(context.Background(), "quiz1", domain.UserIdentity("user1"))
	require.NoError(t, err)
	assert.Nil(t, score)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetQuizScoreFiltersByGuestLabel(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubmissionDatabaseAdapter(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "quiz_id", "user_id", "guest_label", "score", "created_at"}).
		AddRow("score1", "quiz1", nil, "Guest-01HZX3", 30.0, now)
	mock.ExpectQuery(`SELECT (.+) FROM quiz_scores WHERE quiz_id = :1 AND guest_label = :2`).
		WithArgs("quiz1", "Guest-01HZX3").
		WillReturnRows(rows)

	score, err := repo.GetQuizScore(context.Background(), "quiz1", domain.GuestIdentity("Guest-01HZX3"))
	require.NoError(t, err)
	require.NotNil(t, score)
	assert.Equal(t, 30.0, score.Score)
	assert.True(t, score.Identity.IsGuest())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateQuizScoreMapsUniqueViolationToDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubmissionDatabaseAdapter(db)

	mock.ExpectExec(`INSERT INTO quiz_scores`).
		WillReturnError(errors.New("ORA-00001: unique constraint (QUIZ.UQ_QUIZ_SCORES_IDENTITY) violated"))

	err := repo.CreateQuizScore(context.Background(), &domain.QuizScore{
		ID:        "score1",
		QuizID:    "quiz1",
		Identity:  domain.UserIdentity("user1"),
		Score:     30,
		CreatedAt: time.Now(),
	})

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrDuplicateSubmission, domainErr.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserAnswersInsertsEachRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubmissionDatabaseAdapter(db)

	mock.ExpectExec(`INSERT INTO user_answers`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO user_answers`).WillReturnResult(sqlmock.NewResult(0, 1))

	now := time.Now()
	identity := domain.GuestIdentity("Guest-01HZX3")
	err := repo.CreateUserAnswers(context.Background(), []*domain.UserAnswer{
		{ID: "ua1", QuestionID: "q1", Identity: identity, Answer: "go", Correct: true, Explanation: "Right", CreatedAt: now},
		{ID: "ua2", QuestionID: "q2", Identity: identity, Answer: "channels", Correct: false, Explanation: "Wrong", CreatedAt: now},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetHardestQuestionsOrdersHardestFirst(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubmissionDatabaseAdapter(db)

	rows := sqlmock.NewRows([]string{"question", "incorrect_percentage"}).
		AddRow("Explain channels.", 80.0).
		AddRow("Which keyword starts a goroutine?", 25.0)
	mock.ExpectQuery(`(?s)SELECT (.+) FROM user_answers ua`).
		WithArgs("quiz1").
		WillReturnRows(rows)

	difficulties, err := repo.GetHardestQuestions(context.Background(), "quiz1")
	require.NoError(t, err)
	require.Len(t, difficulties, 2)
	assert.Equal(t, "Explain channels.", difficulties[0].QuestionText)
	assert.Equal(t, 80.0, difficulties[0].IncorrectPercentage)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetParticipantsGroupsByIdentity(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubmissionDatabaseAdapter(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "question_id", "user_id", "guest_label", "answer", "correct", "explanation", "created_at"}).
		AddRow("ua1", "q1", "user1", nil, "go", 1, "Right", now).
		AddRow("ua2", "q2", "user1", nil, "threads", 0, "Wrong", now).
		AddRow("ua3", "q1", nil, "Guest-01HZX3", "run", 0, "Wrong", now)
	mock.ExpectQuery(`(?s)SELECT (.+) FROM user_answers ua`).
		WithArgs("quiz1").
		WillReturnRows(rows)

	participants, err := repo.GetParticipants(context.Background(), "quiz1")
	require.NoError(t, err)
	require.Len(t, participants, 2)

	assert.False(t, participants[0].Identity.IsGuest())
	assert.Len(t, participants[0].Answers, 2)
	assert.True(t, participants[1].Identity.IsGuest())
	assert.Len(t, participants[1].Answers, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

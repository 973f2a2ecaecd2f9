package models

import (
	"database/sql"
	"time"
)

// Quiz is the quizzes table row.
type Quiz struct {
	ID        string    `db:"id"` // ULID
	Name      string    `db:"name"`
	CreatorID string    `db:"creator_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Question is the questions table row.
type Question struct {
	ID        string    `db:"id"` // ULID
	QuizID    string    `db:"quiz_id"`
	Question  string    `db:"question"`
	Score     float64   `db:"score"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Answer is the answers table row (template answers, not learner
// answers). Correct is stored as NUMBER(1).
type Answer struct {
	ID         string    `db:"id"` // ULID
	QuestionID string    `db:"question_id"`
	Answer     string    `db:"answer"`
	Correct    int       `db:"correct"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// UserAnswer is the user_answers table row. Exactly one of UserID and
// GuestLabel is set; the table CHECK constraint enforces it.
type UserAnswer struct {
	ID          string         `db:"id"` // ULID
	QuestionID  string         `db:"question_id"`
	UserID      sql.NullString `db:"user_id"`
	GuestLabel  sql.NullString `db:"guest_label"`
	Answer      string         `db:"answer"`
	Correct     int            `db:"correct"`
	Explanation sql.NullString `db:"explanation"`
	CreatedAt   time.Time      `db:"created_at"`
}

// QuizScore is the quiz_scores table row: one cumulative score per
// (quiz, identity), guarded by a composite unique index.
type QuizScore struct {
	ID         string         `db:"id"` // ULID
	QuizID     string         `db:"quiz_id"`
	UserID     sql.NullString `db:"user_id"`
	GuestLabel sql.NullString `db:"guest_label"`
	Score      float64        `db:"score"`
	CreatedAt  time.Time      `db:"created_at"`
}

// User is the users table row. PasswordHash is NULL for Google-only
// accounts; GoogleID is NULL for password accounts.
type User struct {
	ID           string         `db:"id"` // ULID
	Email        string         `db:"email"`
	Username     string         `db:"username"`
	PasswordHash sql.NullString `db:"password_hash"`
	GoogleID     sql.NullString `db:"google_id"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	DeletedAt    sql.NullTime   `db:"deleted_at"`
}

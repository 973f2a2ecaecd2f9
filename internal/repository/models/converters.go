package models

import (
	"database/sql"

	"quizforge/internal/domain"
)

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func identityColumns(identity domain.Identity) (userID, guestLabel sql.NullString) {
	if id, ok := identity.UserID(); ok {
		userID = sql.NullString{String: id, Valid: true}
	}
	if label, ok := identity.GuestLabel(); ok {
		guestLabel = sql.NullString{String: label, Valid: true}
	}
	return userID, guestLabel
}

func columnsToIdentity(userID, guestLabel sql.NullString) domain.Identity {
	if userID.Valid {
		return domain.UserIdentity(userID.String)
	}
	return domain.GuestIdentity(guestLabel.String)
}

// ToDomain converts the quiz row without children; the repository
// attaches questions when loading the full tree.
func (q *Quiz) ToDomain() *domain.Quiz {
	return &domain.Quiz{
		ID:        q.ID,
		Name:      q.Name,
		CreatorID: q.CreatorID,
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
}

// QuizFromDomain converts a domain quiz into its row shape.
func QuizFromDomain(q *domain.Quiz) *Quiz {
	return &Quiz{
		ID:        q.ID,
		Name:      q.Name,
		CreatorID: q.CreatorID,
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
}

// ToDomain converts the question row without its template answers.
func (q *Question) ToDomain() *domain.Question {
	return &domain.Question{
		ID:        q.ID,
		QuizID:    q.QuizID,
		Text:      q.Question,
		Score:     q.Score,
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
}

// QuestionFromDomain converts a domain question into its row shape.
func QuestionFromDomain(q *domain.Question) *Question {
	return &Question{
		ID:        q.ID,
		QuizID:    q.QuizID,
		Question:  q.Text,
		Score:     q.Score,
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
}

// ToDomain converts the template-answer row.
func (a *Answer) ToDomain() *domain.Answer {
	return &domain.Answer{
		ID:         a.ID,
		QuestionID: a.QuestionID,
		Text:       a.Answer,
		Correct:    a.Correct == 1,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// AnswerFromDomain converts a domain template answer into its row shape.
func AnswerFromDomain(a *domain.Answer) *Answer {
	return &Answer{
		ID:         a.ID,
		QuestionID: a.QuestionID,
		Answer:     a.Text,
		Correct:    boolToInt(a.Correct),
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// ToDomain converts the graded-answer row, folding the identity columns
// back into the union.
func (ua *UserAnswer) ToDomain() *domain.UserAnswer {
	return &domain.UserAnswer{
		ID:          ua.ID,
		QuestionID:  ua.QuestionID,
		Identity:    columnsToIdentity(ua.UserID, ua.GuestLabel),
		Answer:      ua.Answer,
		Correct:     ua.Correct == 1,
		Explanation: ua.Explanation.String,
		CreatedAt:   ua.CreatedAt,
	}
}

// UserAnswerFromDomain converts a graded answer into its row shape.
func UserAnswerFromDomain(ua *domain.UserAnswer) *UserAnswer {
	userID, guestLabel := identityColumns(ua.Identity)
	return &UserAnswer{
		ID:          ua.ID,
		QuestionID:  ua.QuestionID,
		UserID:      userID,
		GuestLabel:  guestLabel,
		Answer:      ua.Answer,
		Correct:     boolToInt(ua.Correct),
		Explanation: sql.NullString{String: ua.Explanation, Valid: ua.Explanation != ""},
		CreatedAt:   ua.CreatedAt,
	}
}

// ToDomain converts the score row.
func (qs *QuizScore) ToDomain() *domain.QuizScore {
	return &domain.QuizScore{
		ID:        qs.ID,
		QuizID:    qs.QuizID,
		Identity:  columnsToIdentity(qs.UserID, qs.GuestLabel),
		Score:     qs.Score,
		CreatedAt: qs.CreatedAt,
	}
}

// QuizScoreFromDomain converts a domain score into its row shape.
func QuizScoreFromDomain(qs *domain.QuizScore) *QuizScore {
	userID, guestLabel := identityColumns(qs.Identity)
	return &QuizScore{
		ID:         qs.ID,
		QuizID:     qs.QuizID,
		UserID:     userID,
		GuestLabel: guestLabel,
		Score:      qs.Score,
		CreatedAt:  qs.CreatedAt,
	}
}

// ToDomain converts the user row.
func (u *User) ToDomain() *domain.User {
	user := &domain.User{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		PasswordHash: u.PasswordHash.String,
		GoogleID:     u.GoogleID.String,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if u.DeletedAt.Valid {
		user.DeletedAt = &u.DeletedAt.Time
	}
	return user
}

// UserFromDomain converts a domain user into its row shape.
func UserFromDomain(u *domain.User) *User {
	user := &User{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		PasswordHash: sql.NullString{String: u.PasswordHash, Valid: u.PasswordHash != ""},
		GoogleID:     sql.NullString{String: u.GoogleID, Valid: u.GoogleID != ""},
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if u.DeletedAt != nil {
		user.DeletedAt = sql.NullTime{Time: *u.DeletedAt, Valid: true}
	}
	return user
}

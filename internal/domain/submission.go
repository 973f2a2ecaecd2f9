package domain

import "time"

// UserAnswer is a learner's graded response to one question. Written
// once per (question, identity) during a grading pass; never updated.
type UserAnswer struct {
	ID          string
	QuestionID  string
	Identity    Identity
	Answer      string
	Correct     bool
	Explanation string
	CreatedAt   time.Time
}

// Validate validates the graded answer
func (ua *UserAnswer) Validate() error {
	if ua.QuestionID == "" {
		return NewValidationError("question ID is required")
	}
	return ua.Identity.Validate()
}

// QuizScore is the single cumulative score row for one (quiz, identity)
// pair. A second submission for the same pair is rejected, not
// overwritten.
type QuizScore struct {
	ID        string
	QuizID    string
	Identity  Identity
	Score     float64
	CreatedAt time.Time
}

// Validate validates the score row
func (qs *QuizScore) Validate() error {
	if qs.QuizID == "" {
		return NewValidationError("quiz ID is required")
	}
	return qs.Identity.Validate()
}

// SubmittedAnswer is one ungraded entry of a submission batch, as sent
// by the learner.
type SubmittedAnswer struct {
	QuestionID   string
	QuestionText string
	Answer       string
	Score        float64
}

// GradedAnswer is the grading oracle's verdict for one question.
type GradedAnswer struct {
	QuestionID  string
	Answer      string
	Explanation string
	Correct     bool
}

// GradedBatch is the oracle's result for one whole submission: one
// verdict per question plus a single aggregate score.
type GradedBatch struct {
	Answers    []GradedAnswer
	TotalScore float64
}

// QuestionDifficulty is one row of the hardest-questions analytics:
// the share of incorrect graded answers per question, descending.
type QuestionDifficulty struct {
	QuestionText        string
	IncorrectPercentage float64
}

// Participant groups one identity's graded answers for the creator's
// quiz report.
type Participant struct {
	Identity Identity
	Answers  []*UserAnswer
}

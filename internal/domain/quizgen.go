package domain

import "context"

// QuizGenerator produces a quiz tree from a creator prompt, optionally
// grounded on already-extracted document text. Open-ended questions
// come back with an empty answers list.
type QuizGenerator interface {
	GenerateQuiz(ctx context.Context, creatorInput string, documentText string) (*QuizTarget, error)
}

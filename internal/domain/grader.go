package domain

import "context"

// AnswerGrader is the grading oracle: it judges a learner's whole
// submission in one call and returns per-question verdicts plus one
// aggregate score. The oracle is expensive, so it is invoked exactly
// once per submission batch, never per question.
type AnswerGrader interface {
	GradeSubmission(ctx context.Context, submission []SubmittedAnswer) (*GradedBatch, error)
}

package grader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// llmGrader implements domain.AnswerGrader on a chat model. The whole
// submission goes out in one prompt and comes back as one JSON verdict
// batch, so a ten-question submission costs one model call.
type llmGrader struct {
	model   llms.Model
	timeout time.Duration
}

// NewLLMGrader creates a grading oracle backed by the given model.
func NewLLMGrader(model llms.Model, timeout time.Duration) domain.AnswerGrader {
	return &llmGrader{
		model:   model,
		timeout: timeout,
	}
}

const gradingPromptHeader = `You are a strict quiz grader. Grade every submitted answer and respond with ONLY a JSON object in the following format:
{
    "answers": [
        {
            "question_id": "the question id exactly as given",
            "answer": "the learner's answer exactly as given",
            "explanation": "brief explanation of the verdict",
            "correct": true
        }
    ],
    "user_total_score": 0.0
}

Rules:
1. Return exactly one entry per submitted question, keeping the given question_id unchanged.
2. Mark "correct" true only when the answer is factually right for the question.
3. "user_total_score" is the sum of the scores of the correctly answered questions.
4. Explanations must be under 50 words.

Submitted answers:`

// GradeSubmission grades the batch with a single model call.
func (g *llmGrader) GradeSubmission(ctx context.Context, submission []domain.SubmittedAnswer) (*domain.GradedBatch, error) {
	l := logger.Get()

	var sb strings.Builder
	sb.WriteString(gradingPromptHeader)
	for i, answer := range submission {
		sb.WriteString(fmt.Sprintf("\n%d. question_id: %s\n   question: %s\n   max score: %.2f\n   learner answer: %s",
			i+1, answer.QuestionID, answer.QuestionText, answer.Score, answer.Answer))
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	raw, err := llms.GenerateFromSinglePrompt(ctx, g.model, sb.String(), llms.WithTemperature(0.1))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			l.Error("grading request timed out", zap.Duration("timeout", g.timeout))
		}
		return nil, domain.NewLLMServiceError(fmt.Errorf("grading call failed: %w", err))
	}

	cleaned := strings.TrimSpace(raw)
	jsonStart := strings.Index(cleaned, "{")
	jsonEnd := strings.LastIndex(cleaned, "}")
	if jsonStart == -1 || jsonEnd <= jsonStart {
		l.Error("no JSON object in grading response", zap.String("response", cleaned))
		return nil, domain.NewLLMServiceError(fmt.Errorf("no JSON object found in grading response"))
	}

	var verdict struct {
		Answers []struct {
			QuestionID  string `json:"question_id"`
			Answer      string `json:"answer"`
			Explanation string `json:"explanation"`
			Correct     bool   `json:"correct"`
		} `json:"answers"`
		UserTotalScore float64 `json:"user_total_score"`
	}
	if err := json.Unmarshal([]byte(cleaned[jsonStart:jsonEnd+1]), &verdict); err != nil {
		l.Error("failed to unmarshal grading response",
			zap.Error(err),
			zap.String("response", cleaned))
		return nil, domain.NewLLMServiceError(fmt.Errorf("failed to unmarshal grading response: %w", err))
	}

	batch := &domain.GradedBatch{
		Answers:    make([]domain.GradedAnswer, 0, len(verdict.Answers)),
		TotalScore: verdict.UserTotalScore,
	}
	for _, a := range verdict.Answers {
		batch.Answers = append(batch.Answers, domain.GradedAnswer{
			QuestionID:  a.QuestionID,
			Answer:      a.Answer,
			Explanation: a.Explanation,
			Correct:     a.Correct,
		})
	}
	return batch, nil
}

package quizgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// maxGeneratedQuestions caps the tree size regardless of what the model
// returns.
const maxGeneratedQuestions = 10

// llmQuizGenerator implements domain.QuizGenerator on a chat model.
type llmQuizGenerator struct {
	model   llms.Model
	timeout time.Duration
}

// NewLLMQuizGenerator creates a quiz generator backed by the given model.
func NewLLMQuizGenerator(model llms.Model, timeout time.Duration) domain.QuizGenerator {
	return &llmQuizGenerator{
		model:   model,
		timeout: timeout,
	}
}

const generationPromptHeader = `You are a quiz author. Produce a quiz as ONLY a JSON object in the following format:
{
    "name": "short quiz title",
    "questions": [
        {
            "question": "the question text",
            "score": 10,
            "answers": [
                {"answer": "candidate answer text", "correct": true}
            ]
        }
    ]
}

Rules:
1. Follow the requested question count and question type exactly.
2. Multiple-choice questions carry 3 to 5 candidate answers with exactly one marked correct.
3. Open-ended questions carry an empty "answers" array.
4. Every score must be a positive number.`

// GenerateQuiz produces a quiz tree from the creator's request,
// optionally grounded on extracted document text.
func (g *llmQuizGenerator) GenerateQuiz(ctx context.Context, creatorInput string, documentText string) (*domain.QuizTarget, error) {
	l := logger.Get()

	var sb strings.Builder
	sb.WriteString(generationPromptHeader)
	sb.WriteString("\n\nRequest: ")
	sb.WriteString(creatorInput)
	if documentText != "" {
		sb.WriteString("\n\nBase the questions on this source material:\n")
		sb.WriteString(documentText)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	raw, err := llms.GenerateFromSinglePrompt(ctx, g.model, sb.String(), llms.WithTemperature(0.7))
	if err != nil {
		return nil, domain.NewLLMServiceError(fmt.Errorf("generation call failed: %w", err))
	}

	cleaned := strings.TrimSpace(raw)
	jsonStart := strings.Index(cleaned, "{")
	jsonEnd := strings.LastIndex(cleaned, "}")
	if jsonStart == -1 || jsonEnd <= jsonStart {
		l.Error("no JSON object in generation response", zap.String("response", cleaned))
		return nil, domain.NewLLMServiceError(fmt.Errorf("no JSON object found in generation response"))
	}

	var generated struct {
		Name      string `json:"name"`
		Questions []struct {
			Question string  `json:"question"`
			Score    float64 `json:"score"`
			Answers  []struct {
				Answer  string `json:"answer"`
				Correct bool   `json:"correct"`
			} `json:"answers"`
		} `json:"questions"`
	}
	if err := json.Unmarshal([]byte(cleaned[jsonStart:jsonEnd+1]), &generated); err != nil {
		l.Error("failed to unmarshal generation response",
			zap.Error(err),
			zap.String("response", cleaned))
		return nil, domain.NewLLMServiceError(fmt.Errorf("failed to unmarshal generation response: %w", err))
	}

	if len(generated.Questions) > maxGeneratedQuestions {
		generated.Questions = generated.Questions[:maxGeneratedQuestions]
	}

	target := &domain.QuizTarget{Name: generated.Name}
	for _, q := range generated.Questions {
		question := domain.QuestionTarget{
			Text:  q.Question,
			Score: q.Score,
		}
		for _, a := range q.Answers {
			question.Answers = append(question.Answers, domain.AnswerTarget{
				Text:    a.Answer,
				Correct: a.Correct,
			})
		}
		target.Questions = append(target.Questions, question)
	}

	if err := target.Validate(); err != nil {
		return nil, domain.NewLLMServiceError(fmt.Errorf("generated quiz failed validation: %w", err))
	}
	return target, nil
}

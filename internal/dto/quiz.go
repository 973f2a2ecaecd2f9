package dto

import "quizforge/internal/domain"

// GenerateQuizRequest is the input for LLM-backed quiz creation. The
// document text, when present, is already-extracted plain text; file
// parsing happens upstream of this service.
// @Description Request body for generating a quiz
type GenerateQuizRequest struct {
	Topic             string `json:"topic" validate:"required,max=150"`
	NumberOfQuestions int    `json:"number_of_questions" validate:"required,min=1,max=10"`
	TypeOfQuestions   string `json:"type_of_questions" validate:"required,oneof=open multiple-choice"`
	DocumentText      string `json:"document_text,omitempty" validate:"max=100000"`
}

// UpdateQuizRequest is the target tree for reconciliation. Question and
// answer entries carrying an id are kept and updated; entries without
// an id are created; persisted rows not mentioned are deleted.
// @Description Request body for updating a quiz
type UpdateQuizRequest struct {
	Name      string                  `json:"name" validate:"required,max=150"`
	Questions []UpdateQuestionRequest `json:"questions" validate:"dive"`
}

type UpdateQuestionRequest struct {
	ID       string                `json:"id,omitempty"`
	Question string                `json:"question" validate:"required"`
	Score    float64               `json:"score" validate:"required,gt=0"`
	Answers  []UpdateAnswerRequest `json:"answers" validate:"dive"`
}

type UpdateAnswerRequest struct {
	ID      string `json:"id,omitempty"`
	Answer  string `json:"answer" validate:"required"`
	Correct bool   `json:"correct"`
}

// ToDomain converts the request into a reconciliation target tree.
func (r *UpdateQuizRequest) ToDomain() *domain.QuizTarget {
	target := &domain.QuizTarget{
		Name:      r.Name,
		Questions: make([]domain.QuestionTarget, 0, len(r.Questions)),
	}
	for _, q := range r.Questions {
		qt := domain.QuestionTarget{
			ID:      q.ID,
			Text:    q.Question,
			Score:   q.Score,
			Answers: make([]domain.AnswerTarget, 0, len(q.Answers)),
		}
		for _, a := range q.Answers {
			qt.Answers = append(qt.Answers, domain.AnswerTarget{
				ID:      a.ID,
				Text:    a.Answer,
				Correct: a.Correct,
			})
		}
		target.Questions = append(target.Questions, qt)
	}
	return target
}

// QuizResponse is the quiz aggregate returned to clients.
// @Description Quiz information with nested questions and answers
type QuizResponse struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	CreatorID  string             `json:"creator_id"`
	TotalScore float64            `json:"total_score"`
	Questions  []QuestionResponse `json:"questions"`
}

type QuestionResponse struct {
	ID       string           `json:"id"`
	Question string           `json:"question"`
	Score    float64          `json:"score"`
	Answers  []AnswerResponse `json:"answers"`
}

type AnswerResponse struct {
	ID      string `json:"id"`
	Answer  string `json:"answer"`
	Correct bool   `json:"correct"`
}

// NewQuizResponse maps a domain quiz tree to its response shape.
func NewQuizResponse(quiz *domain.Quiz) *QuizResponse {
	resp := &QuizResponse{
		ID:         quiz.ID,
		Name:       quiz.Name,
		CreatorID:  quiz.CreatorID,
		TotalScore: quiz.TotalScore(),
		Questions:  make([]QuestionResponse, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		qr := QuestionResponse{
			ID:       q.ID,
			Question: q.Text,
			Score:    q.Score,
			Answers:  make([]AnswerResponse, 0, len(q.Answers)),
		}
		for _, a := range q.Answers {
			qr.Answers = append(qr.Answers, AnswerResponse{
				ID:      a.ID,
				Answer:  a.Text,
				Correct: a.Correct,
			})
		}
		resp.Questions = append(resp.Questions, qr)
	}
	return resp
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}

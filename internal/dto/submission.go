package dto

import "quizforge/internal/domain"

// SubmitAnswersRequest is a learner's submission batch. The optional
// guest field overrides the session's guest label for anonymous
// callers; it is ignored for authenticated users.
// @Description Request body for submitting quiz answers
type SubmitAnswersRequest struct {
	Guest   string                   `json:"guest,omitempty" validate:"max=30"`
	Answers []SubmittedAnswerRequest `json:"answers" validate:"required,min=1,dive"`
}

type SubmittedAnswerRequest struct {
	QuestionID    string  `json:"question_id" validate:"required"`
	Question      string  `json:"question" validate:"required"`
	Answer        string  `json:"answer" validate:"required,max=10000"`
	QuestionScore float64 `json:"question_score" validate:"gt=0"`
}

// SubmissionResponse is the graded result returned to the learner.
// @Description Graded submission with per-question verdicts
type SubmissionResponse struct {
	Answers    []GradedAnswerResponse `json:"answers"`
	TotalScore float64                `json:"total_score"`
}

type GradedAnswerResponse struct {
	QuestionID  string `json:"question_id"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation"`
	Correct     bool   `json:"correct"`
}

// NewSubmissionResponse maps a graded batch to its response shape.
func NewSubmissionResponse(batch *domain.GradedBatch) *SubmissionResponse {
	resp := &SubmissionResponse{
		Answers:    make([]GradedAnswerResponse, 0, len(batch.Answers)),
		TotalScore: batch.TotalScore,
	}
	for _, a := range batch.Answers {
		resp.Answers = append(resp.Answers, GradedAnswerResponse{
			QuestionID:  a.QuestionID,
			Answer:      a.Answer,
			Explanation: a.Explanation,
			Correct:     a.Correct,
		})
	}
	return resp
}

// AnalyticsResponse is the creator-only quiz analytics payload.
type AnalyticsResponse struct {
	TotalUsers       int                          `json:"total_users"`
	HardestQuestions []QuestionDifficultyResponse `json:"hardest_questions"`
}

type QuestionDifficultyResponse struct {
	Question            string  `json:"question"`
	IncorrectPercentage float64 `json:"incorrect_percentage"`
}

// ReportResponse is the creator-facing quiz detail with participants.
type ReportResponse struct {
	Quiz         *QuizResponse         `json:"quiz"`
	UsersCount   int                   `json:"users_count"`
	Participants []ParticipantResponse `json:"participants"`
}

type ParticipantResponse struct {
	UserID  string                 `json:"user_id,omitempty"`
	Guest   string                 `json:"guest,omitempty"`
	Answers []GradedAnswerResponse `json:"answers"`
}

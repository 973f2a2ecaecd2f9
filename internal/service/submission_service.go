package service

import (
	"context"
	"fmt"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/dto"
	"quizforge/internal/logger"
	"quizforge/internal/util"

	"go.uber.org/zap"
)

// publishTimeout bounds the fire-and-forget notification publish that
// runs after the submission transaction commits.
const publishTimeout = 10 * time.Second

// SubmissionService grades a learner's submission and persists the
// result exactly once per (quiz, identity).
type SubmissionService interface {
	SubmitAnswers(ctx context.Context, quizID string, identity domain.Identity, req *dto.SubmitAnswersRequest) (*dto.SubmissionResponse, error)
}

// submissionService implements SubmissionService.
type submissionService struct {
	quizRepo  domain.QuizRepository
	subRepo   domain.SubmissionRepository
	userRepo  domain.UserRepository
	grader    domain.AnswerGrader
	txManager domain.TransactionManager
	publisher domain.EventPublisher
}

// NewSubmissionService creates a new instance of submissionService.
func NewSubmissionService(
	quizRepo domain.QuizRepository,
	subRepo domain.SubmissionRepository,
	userRepo domain.UserRepository,
	grader domain.AnswerGrader,
	txManager domain.TransactionManager,
	publisher domain.EventPublisher,
) SubmissionService {
	return &submissionService{
		quizRepo:  quizRepo,
		subRepo:   subRepo,
		userRepo:  userRepo,
		grader:    grader,
		txManager: txManager,
		publisher: publisher,
	}
}

// SubmitAnswers runs the grading pipeline in strict order: resolve the
// quiz, reject duplicates before paying for the oracle, grade the whole
// batch with one call, then persist the score and graded answers in one
// transaction. The unique indexes remain the authoritative duplicate
// guard for concurrent submissions.
func (s *submissionService) SubmitAnswers(ctx context.Context, quizID string, identity domain.Identity, req *dto.SubmitAnswersRequest) (*dto.SubmissionResponse, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}

	quiz, err := s.quizRepo.GetQuizTree(ctx, quizID)
	if err != nil {
		return nil, err
	}

	existing, err := s.subRepo.GetQuizScore(ctx, quizID, identity)
	if err != nil {
		return nil, domain.NewInternalError("Failed to check for an existing submission", err)
	}
	if existing != nil {
		return nil, domain.NewDuplicateSubmissionError(quizID)
	}

	submission, err := buildSubmission(quiz, req)
	if err != nil {
		return nil, err
	}

	batch, err := s.grader.GradeSubmission(ctx, submission)
	if err != nil {
		return nil, err
	}
	if err := validateVerdicts(quiz, submission, batch); err != nil {
		return nil, err
	}

	now := time.Now()
	score := &domain.QuizScore{
		ID:        util.NewULID(),
		QuizID:    quizID,
		Identity:  identity,
		Score:     batch.TotalScore,
		CreatedAt: now,
	}
	userAnswers := make([]*domain.UserAnswer, 0, len(batch.Answers))
	for _, verdict := range batch.Answers {
		userAnswers = append(userAnswers, &domain.UserAnswer{
			ID:          util.NewULID(),
			QuestionID:  verdict.QuestionID,
			Identity:    identity,
			Answer:      verdict.Answer,
			Correct:     verdict.Correct,
			Explanation: verdict.Explanation,
			CreatedAt:   now,
		})
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.subRepo.CreateQuizScore(txCtx, score); err != nil {
			return err
		}
		return s.subRepo.CreateUserAnswers(txCtx, userAnswers)
	})
	if err != nil {
		return nil, err
	}

	s.notifyCreator(ctx, quiz, identity, batch.TotalScore)
	return dto.NewSubmissionResponse(batch), nil
}

// buildSubmission maps the request onto persisted questions. Question
// text and score come from the database, never from the client, so the
// oracle grades against the real quiz.
func buildSubmission(quiz *domain.Quiz, req *dto.SubmitAnswersRequest) ([]domain.SubmittedAnswer, error) {
	questions := make(map[string]*domain.Question, len(quiz.Questions))
	for _, question := range quiz.Questions {
		questions[question.ID] = question
	}

	seen := make(map[string]bool, len(req.Answers))
	submission := make([]domain.SubmittedAnswer, 0, len(req.Answers))
	for _, answer := range req.Answers {
		question, ok := questions[answer.QuestionID]
		if !ok {
			return nil, domain.NewQuestionNotFoundError(answer.QuestionID)
		}
		if seen[answer.QuestionID] {
			return nil, domain.NewValidationError("duplicate question in submission: " + answer.QuestionID)
		}
		seen[answer.QuestionID] = true
		submission = append(submission, domain.SubmittedAnswer{
			QuestionID:   question.ID,
			QuestionText: question.Text,
			Answer:       answer.Answer,
			Score:        question.Score,
		})
	}
	return submission, nil
}

// validateVerdicts rejects a grading batch whose question IDs do not
// line up one-to-one with the submitted questions.
func validateVerdicts(quiz *domain.Quiz, submission []domain.SubmittedAnswer, batch *domain.GradedBatch) error {
	quizQuestions := quiz.QuestionIDSet()
	graded := make(map[string]bool, len(batch.Answers))
	for _, verdict := range batch.Answers {
		if !quizQuestions[verdict.QuestionID] {
			return domain.NewLLMServiceError(fmt.Errorf("verdict for unknown question %s", verdict.QuestionID))
		}
		if graded[verdict.QuestionID] {
			return domain.NewLLMServiceError(fmt.Errorf("duplicate verdict for question %s", verdict.QuestionID))
		}
		graded[verdict.QuestionID] = true
	}
	if len(batch.Answers) != len(submission) {
		return domain.NewLLMServiceError(fmt.Errorf("got %d verdicts for %d submitted answers", len(batch.Answers), len(submission)))
	}
	for _, submitted := range submission {
		if !graded[submitted.QuestionID] {
			return domain.NewLLMServiceError(fmt.Errorf("missing verdict for question %s", submitted.QuestionID))
		}
	}
	return nil
}

// notifyCreator publishes the creator notification after commit.
// Failures are logged and swallowed; the learner's response never
// depends on the notification pipeline.
func (s *submissionService) notifyCreator(ctx context.Context, quiz *domain.Quiz, identity domain.Identity, totalScore float64) {
	participantName := identity.DisplayName()
	if userID, ok := identity.UserID(); ok {
		if user, err := s.userRepo.GetUserByID(ctx, userID); err == nil && user != nil {
			participantName = user.Username
		}
	}

	creator, err := s.userRepo.GetUserByID(ctx, quiz.CreatorID)
	if err != nil || creator == nil {
		logger.Get().Warn("creator lookup failed, skipping notification",
			zap.String("quiz_id", quiz.ID),
			zap.Error(err))
		return
	}

	event := &domain.SubmissionGradedEvent{
		QuizID:          quiz.ID,
		QuizName:        quiz.Name,
		ParticipantName: participantName,
		TotalScore:      totalScore,
		CreatorEmail:    creator.Email,
		GradedAt:        time.Now(),
	}

	go func() {
		publishCtx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := s.publisher.PublishSubmissionGraded(publishCtx, event); err != nil {
			logger.Get().Error("failed to publish submission graded event",
				zap.String("quiz_id", quiz.ID),
				zap.Error(err))
		}
	}()
}

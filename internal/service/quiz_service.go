package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"quizforge/internal/cache"
	"quizforge/internal/domain"
	"quizforge/internal/dto"
	"quizforge/internal/logger"
	"quizforge/internal/util"

	"go.uber.org/zap"
)

// quizTreeTTL bounds staleness of the cached quiz tree; every write
// path invalidates the key anyway.
const quizTreeTTL = 10 * time.Minute

// QuizService defines the interface for quiz lifecycle operations.
type QuizService interface {
	GenerateQuiz(ctx context.Context, creatorID string, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error)
	GetQuiz(ctx context.Context, quizID string) (*dto.QuizResponse, error)
	UpdateQuiz(ctx context.Context, quizID, callerID string, req *dto.UpdateQuizRequest) (*dto.QuizResponse, error)
	DeleteQuiz(ctx context.Context, quizID, callerID string) error
}

// quizService implements QuizService.
type quizService struct {
	repo      domain.QuizRepository
	generator domain.QuizGenerator
	txManager domain.TransactionManager
	cache     domain.Cache
}

// NewQuizService creates a new instance of quizService.
func NewQuizService(
	repo domain.QuizRepository,
	generator domain.QuizGenerator,
	txManager domain.TransactionManager,
	quizCache domain.Cache,
) QuizService {
	return &quizService{
		repo:      repo,
		generator: generator,
		txManager: txManager,
		cache:     quizCache,
	}
}

// GenerateQuiz asks the generator for a quiz tree and persists it in
// one transaction.
func (s *quizService) GenerateQuiz(ctx context.Context, creatorID string, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error) {
	prompt := fmt.Sprintf("Create a quiz about %q with exactly %d %s questions.",
		req.Topic, req.NumberOfQuestions, req.TypeOfQuestions)

	target, err := s.generator.GenerateQuiz(ctx, prompt, req.DocumentText)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	quiz := &domain.Quiz{
		ID:        util.NewULID(),
		Name:      target.Name,
		CreatorID: creatorID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.CreateQuiz(txCtx, quiz); err != nil {
			return err
		}
		for _, qt := range target.Questions {
			question := &domain.Question{
				ID:        util.NewULID(),
				QuizID:    quiz.ID,
				Text:      qt.Text,
				Score:     qt.Score,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := s.repo.CreateQuestion(txCtx, question); err != nil {
				return err
			}
			if len(qt.Answers) == 0 {
				quiz.Questions = append(quiz.Questions, question)
				continue
			}
			answers := make([]*domain.Answer, 0, len(qt.Answers))
			for _, at := range qt.Answers {
				answers = append(answers, &domain.Answer{
					ID:         util.NewULID(),
					QuestionID: question.ID,
					Text:       at.Text,
					Correct:    at.Correct,
					CreatedAt:  now,
					UpdatedAt:  now,
				})
			}
			if err := s.repo.CreateAnswers(txCtx, answers); err != nil {
				return err
			}
			question.Answers = answers
			quiz.Questions = append(quiz.Questions, question)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := dto.NewQuizResponse(quiz)
	s.cacheQuizTree(ctx, quiz.ID, resp)
	return resp, nil
}

// GetQuiz returns the full quiz tree, served from the cache when fresh.
func (s *quizService) GetQuiz(ctx context.Context, quizID string) (*dto.QuizResponse, error) {
	key := cache.QuizTreeKey(quizID)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var resp dto.QuizResponse
		if err := json.Unmarshal([]byte(cached), &resp); err == nil {
			return &resp, nil
		}
		// A corrupt entry falls through to the database read.
		s.invalidateQuizTree(ctx, quizID)
	} else if err != domain.ErrCacheMiss {
		logger.Get().Warn("quiz cache read failed", zap.String("quiz_id", quizID), zap.Error(err))
	}

	quiz, err := s.repo.GetQuizTree(ctx, quizID)
	if err != nil {
		return nil, err
	}

	resp := dto.NewQuizResponse(quiz)
	s.cacheQuizTree(ctx, quizID, resp)
	return resp, nil
}

// UpdateQuiz reconciles the persisted tree toward the submitted target
// inside one transaction. Only the quiz's creator may update it.
func (s *quizService) UpdateQuiz(ctx context.Context, quizID, callerID string, req *dto.UpdateQuizRequest) (*dto.QuizResponse, error) {
	target := req.ToDomain()
	if err := target.Validate(); err != nil {
		return nil, err
	}

	quiz, err := s.repo.GetQuizTree(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz.CreatorID != callerID {
		return nil, domain.NewForbiddenError("only the quiz creator can update it")
	}

	rec := newReconciler(s.repo)
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return rec.reconcile(txCtx, quiz, target)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateQuizTree(ctx, quizID)

	updated, err := s.repo.GetQuizTree(ctx, quizID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewQuizResponse(updated)
	s.cacheQuizTree(ctx, quizID, resp)
	return resp, nil
}

// DeleteQuiz removes the quiz and everything under it. Only the quiz's
// creator may delete it.
func (s *quizService) DeleteQuiz(ctx context.Context, quizID, callerID string) error {
	quiz, err := s.repo.GetQuizByID(ctx, quizID)
	if err != nil {
		return err
	}
	if quiz.CreatorID != callerID {
		return domain.NewForbiddenError("only the quiz creator can delete it")
	}

	if err := s.repo.DeleteQuiz(ctx, quizID); err != nil {
		return err
	}
	s.invalidateQuizTree(ctx, quizID)
	return nil
}

func (s *quizService) cacheQuizTree(ctx context.Context, quizID string, resp *dto.QuizResponse) {
	payload, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cache.QuizTreeKey(quizID), string(payload), quizTreeTTL); err != nil {
		logger.Get().Warn("quiz cache write failed", zap.String("quiz_id", quizID), zap.Error(err))
	}
}

func (s *quizService) invalidateQuizTree(ctx context.Context, quizID string) {
	if err := s.cache.Delete(ctx, cache.QuizTreeKey(quizID)); err != nil {
		logger.Get().Warn("quiz cache invalidation failed", zap.String("quiz_id", quizID), zap.Error(err))
	}
}

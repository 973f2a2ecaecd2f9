package service

import (
	"context"

	"quizforge/internal/domain"
	"quizforge/internal/dto"

	"golang.org/x/sync/errgroup"
)

// AnalyticsService serves the creator-only quiz report and analytics
// views.
type AnalyticsService interface {
	GetQuizAnalytics(ctx context.Context, quizID, callerID string) (*dto.AnalyticsResponse, error)
	GetQuizReport(ctx context.Context, quizID, callerID string) (*dto.ReportResponse, error)
}

// analyticsService implements AnalyticsService.
type analyticsService struct {
	quizRepo domain.QuizRepository
	subRepo  domain.SubmissionRepository
}

// NewAnalyticsService creates a new instance of analyticsService.
func NewAnalyticsService(quizRepo domain.QuizRepository, subRepo domain.SubmissionRepository) AnalyticsService {
	return &analyticsService{
		quizRepo: quizRepo,
		subRepo:  subRepo,
	}
}

// GetQuizAnalytics returns the participant count and the questions
// ranked hardest first. The two aggregations run concurrently.
func (s *analyticsService) GetQuizAnalytics(ctx context.Context, quizID, callerID string) (*dto.AnalyticsResponse, error) {
	if err := s.authorizeCreator(ctx, quizID, callerID); err != nil {
		return nil, err
	}

	var (
		total   int
		hardest []domain.QuestionDifficulty
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.subRepo.CountParticipants(gCtx, quizID)
		return err
	})
	g.Go(func() error {
		var err error
		hardest, err = s.subRepo.GetHardestQuestions(gCtx, quizID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, domain.NewInternalError("Failed to load quiz analytics", err)
	}

	resp := &dto.AnalyticsResponse{
		TotalUsers:       total,
		HardestQuestions: make([]dto.QuestionDifficultyResponse, 0, len(hardest)),
	}
	for _, q := range hardest {
		resp.HardestQuestions = append(resp.HardestQuestions, dto.QuestionDifficultyResponse{
			Question:            q.QuestionText,
			IncorrectPercentage: q.IncorrectPercentage,
		})
	}
	return resp, nil
}

// GetQuizReport returns the quiz tree together with every participant's
// graded answers.
func (s *analyticsService) GetQuizReport(ctx context.Context, quizID, callerID string) (*dto.ReportResponse, error) {
	if err := s.authorizeCreator(ctx, quizID, callerID); err != nil {
		return nil, err
	}

	var (
		quiz         *domain.Quiz
		total        int
		participants []domain.Participant
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		quiz, err = s.quizRepo.GetQuizTree(gCtx, quizID)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.subRepo.CountParticipants(gCtx, quizID)
		return err
	})
	g.Go(func() error {
		var err error
		participants, err = s.subRepo.GetParticipants(gCtx, quizID)
		return err
	})
	if err := g.Wait(); err != nil {
		if _, ok := err.(*domain.DomainError); ok {
			return nil, err
		}
		return nil, domain.NewInternalError("Failed to load quiz report", err)
	}

	resp := &dto.ReportResponse{
		Quiz:         dto.NewQuizResponse(quiz),
		UsersCount:   total,
		Participants: make([]dto.ParticipantResponse, 0, len(participants)),
	}
	for _, p := range participants {
		pr := dto.ParticipantResponse{
			Answers: make([]dto.GradedAnswerResponse, 0, len(p.Answers)),
		}
		if userID, ok := p.Identity.UserID(); ok {
			pr.UserID = userID
		}
		if label, ok := p.Identity.GuestLabel(); ok {
			pr.Guest = label
		}
		for _, a := range p.Answers {
			pr.Answers = append(pr.Answers, dto.GradedAnswerResponse{
				QuestionID:  a.QuestionID,
				Answer:      a.Answer,
				Explanation: a.Explanation,
				Correct:     a.Correct,
			})
		}
		resp.Participants = append(resp.Participants, pr)
	}
	return resp, nil
}

func (s *analyticsService) authorizeCreator(ctx context.Context, quizID, callerID string) error {
	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return err
	}
	if quiz.CreatorID != callerID {
		return domain.NewForbiddenError("only the quiz creator can view this")
	}
	return nil
}

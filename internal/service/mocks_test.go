package service

import (
	"context"
	"os"
	"testing"
	"time"

	"quizforge/internal/config"
	"quizforge/internal/domain"
	"quizforge/internal/logger"

	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{}); err != nil {
		panic("failed to initialize logger for tests: " + err.Error())
	}
	exitVal := m.Run()
	_ = logger.Sync()
	os.Exit(exitVal)
}

// --- Mocks ---

type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) GetQuizTree(ctx context.Context, id string) (*domain.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	return m.Called(ctx, quiz).Error(0)
}

func (m *MockQuizRepository) UpdateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	return m.Called(ctx, quiz).Error(0)
}

func (m *MockQuizRepository) DeleteQuiz(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockQuizRepository) CreateQuestion(ctx context.Context, question *domain.Question) error {
	return m.Called(ctx, question).Error(0)
}

func (m *MockQuizRepository) UpdateQuestion(ctx context.Context, question *domain.Question) error {
	return m.Called(ctx, question).Error(0)
}

func (m *MockQuizRepository) DeleteQuestions(ctx context.Context, ids []string) error {
	return m.Called(ctx, ids).Error(0)
}

func (m *MockQuizRepository) GetQuestionByID(ctx context.Context, id string) (*domain.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *MockQuizRepository) CreateAnswers(ctx context.Context, answers []*domain.Answer) error {
	return m.Called(ctx, answers).Error(0)
}

func (m *MockQuizRepository) UpdateAnswer(ctx context.Context, answer *domain.Answer) error {
	return m.Called(ctx, answer).Error(0)
}

func (m *MockQuizRepository) DeleteAnswers(ctx context.Context, ids []string) error {
	return m.Called(ctx, ids).Error(0)
}

type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) GetQuizScore(ctx context.Context, quizID string, identity domain.Identity) (*domain.QuizScore, error) {
	args := m.Called(ctx, quizID, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuizScore), args.Error(1)
}

func (m *MockSubmissionRepository) CreateQuizScore(ctx context.Context, score *domain.QuizScore) error {
	return m.Called(ctx, score).Error(0)
}

func (m *MockSubmissionRepository) CreateUserAnswers(ctx context.Context, answers []*domain.UserAnswer) error {
	return m.Called(ctx, answers).Error(0)
}

func (m *MockSubmissionRepository) CountParticipants(ctx context.Context, quizID string) (int, error) {
	args := m.Called(ctx, quizID)
	return args.Int(0), args.Error(1)
}

func (m *MockSubmissionRepository) GetHardestQuestions(ctx context.Context, quizID string) ([]domain.QuestionDifficulty, error) {
	args := m.Called(ctx, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QuestionDifficulty), args.Error(1)
}

func (m *MockSubmissionRepository) GetParticipants(ctx context.Context, quizID string) ([]domain.Participant, error) {
	args := m.Called(ctx, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Participant), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	args := m.Called(ctx, googleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

type MockAnswerGrader struct {
	mock.Mock
}

func (m *MockAnswerGrader) GradeSubmission(ctx context.Context, submission []domain.SubmittedAnswer) (*domain.GradedBatch, error) {
	args := m.Called(ctx, submission)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GradedBatch), args.Error(1)
}

type MockQuizGenerator struct {
	mock.Mock
}

func (m *MockQuizGenerator) GenerateQuiz(ctx context.Context, creatorInput string, documentText string) (*domain.QuizTarget, error) {
	args := m.Called(ctx, creatorInput, documentText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuizTarget), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
	graded     chan *domain.SubmissionGradedEvent
	registered chan *domain.UserRegisteredEvent
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{
		graded:     make(chan *domain.SubmissionGradedEvent, 1),
		registered: make(chan *domain.UserRegisteredEvent, 1),
	}
}

func (m *MockEventPublisher) PublishSubmissionGraded(ctx context.Context, event *domain.SubmissionGradedEvent) error {
	args := m.Called(ctx, event)
	select {
	case m.graded <- event:
	default:
	}
	return args.Error(0)
}

func (m *MockEventPublisher) PublishUserRegistered(ctx context.Context, event *domain.UserRegisteredEvent) error {
	args := m.Called(ctx, event)
	select {
	case m.registered <- event:
	default:
	}
	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	return m.Called().Error(0)
}

// WaitForGraded blocks until a graded event is published or the timeout
// elapses.
func (m *MockEventPublisher) WaitForGraded(t *testing.T, timeout time.Duration) *domain.SubmissionGradedEvent {
	t.Helper()
	select {
	case event := <-m.graded:
		return event
	case <-time.After(timeout):
		t.Fatal("timed out waiting for submission graded event")
		return nil
	}
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// fakeTxManager runs the function directly; transactional behavior is
// covered by the repository tests.
type fakeTxManager struct{}

func (fakeTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

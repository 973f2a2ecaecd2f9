package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func submissionFixture() (*domain.Quiz, *dto.SubmitAnswersRequest) {
	quiz := buildQuizTree()
	req := &dto.SubmitAnswersRequest{
		Answers: []dto.SubmittedAnswerRequest{
			{QuestionID: "q1", Question: "What is Go?", Answer: "A programming language", QuestionScore: 10},
			{QuestionID: "q2", Question: "What is a goroutine?", Answer: "A lightweight thread", QuestionScore: 20},
		},
	}
	return quiz, req
}

func gradedFixture() *domain.GradedBatch {
	return &domain.GradedBatch{
		Answers: []domain.GradedAnswer{
			{QuestionID: "q1", Answer: "A programming language", Explanation: "Right", Correct: true},
			{QuestionID: "q2", Answer: "A lightweight thread", Explanation: "Right", Correct: true},
		},
		TotalScore: 30,
	}
}

func newSubmissionFixtureService(
	quizRepo *MockQuizRepository,
	subRepo *MockSubmissionRepository,
	userRepo *MockUserRepository,
	answerGrader *MockAnswerGrader,
	publisher *MockEventPublisher,
) SubmissionService {
	return NewSubmissionService(quizRepo, subRepo, userRepo, answerGrader, fakeTxManager{}, publisher)
}

func TestSubmitAnswersGradesWholeBatchOnce(t *testing.T) {
	quiz, req := submissionFixture()
	identity := domain.GuestIdentity("Guest-01HZX3")

	quizRepo := new(MockQuizRepository)
	subRepo := new(MockSubmissionRepository)
	userRepo := new(MockUserRepository)
	answerGrader := new(MockAnswerGrader)
	publisher := NewMockEventPublisher()

	quizRepo.On("GetQuizTree", mock.Anything, "quiz1").Return(quiz, nil)
	subRepo.On("GetQuizScore", mock.Anything, "quiz1", identity).Return(nil, nil)
	answerGrader.On("GradeSubmission", mock.Anything, mock.Anything).Return(gradedFixture(), nil)
	subRepo.On("CreateQuizScore", mock.Anything, mock.Anything).Return(nil)
	subRepo.On("CreateUserAnswers", mock.Anything, mock.Anything).Return(nil)
	userRepo.On("GetUserByID", mock.Anything, "creator1").Return(&domain.User{
		ID:       "creator1",
		Email:    "creator@example.com",
		Username: "creator",
	}, nil)
	publisher.On("PublishSubmissionGraded", mock.Anything, mock.Anything).Return(nil)

	svc := newSubmissionFixtureService(quizRepo, subRepo, userRepo, answerGrader, publisher)
	resp, err := svc.SubmitAnswers(context.Background(), "quiz1", identity, req)
	require.NoError(t, err)

	assert.Equal(t, 30.0, resp.TotalScore)
	assert.Len(t, resp.Answers, 2)
	answerGrader.AssertNumberOfCalls(t, "GradeSubmission", 1)

	// The oracle is fed persisted question text and score, not the
	// client's copy.
	graded := answerGrader.Calls[0].Arguments.Get(1).([]domain.SubmittedAnswer)
	assert.Equal(t, "What is Go?", graded[0].QuestionText)
	assert.Equal(t, 10.0, graded[0].Score)

	event := publisher.WaitForGraded(t, time.Second)
	assert.Equal(t, "quiz1", event.QuizID)
	assert.Equal(t, "creator@example.com", event.CreatorEmail)
	assert.Equal(t, 30.0, event.TotalScore)
	assert.Equal(t, "Guest-01HZX3", event.ParticipantName)
}

func TestSubmitAnswersRejectsRepeatSubmission(t *testing.T) {
	quiz, req := submissionFixture()
	identity := domain.UserIdentity("user1")

	quizRepo := new(MockQuizRepository)
	subRepo := new(MockSubmissionRepository)
	answerGrader := new(MockAnswerGrader)

	quizRepo.On("GetQuizTree", mock.Anything, "quiz1").Return(quiz, nil)
	subRepo.On("GetQuizScore", mock.Anything, "quiz1", identity).Return(&domain.QuizScore{
		ID:       "score1",
		QuizID:   "quiz1",
		Identity: identity,
		Score:    30,
	}, nil)

	svc := newSubmissionFixtureService(quizRepo, subRepo, new(MockUserRepository), answerGrader, NewMockEventPublisher())
	_, err := svc.SubmitAnswers(context.Background(), "quiz1", identity, req)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrDuplicateSubmission, domainErr.Code)
	// The duplicate is caught before the oracle is paid for.
	answerGrader.AssertNotCalled(t, "GradeSubmission", mock.Anything, mock.Anything)
}

func TestSubmitAnswersRejectsUnknownQuestion(t *testing.T) {
	quiz, req := submissionFixture()
	req.Answers[1].QuestionID = "not-in-this-quiz"
	identity := domain.UserIdentity("user1")

	quizRepo := new(MockQuizRepository)
	subRepo := new(MockSubmissionRepository)
	answerGrader := new(MockAnswerGrader)

	quizRepo.On("GetQuizTree", mock.Anything, "quiz1").Return(quiz, nil)
	subRepo.On("GetQuizScore", mock.Anything, "quiz1", identity).Return(nil, nil)

	svc := newSubmissionFixtureService(quizRepo, subRepo, new(MockUserRepository), answerGrader, NewMockEventPublisher())
	_, err := svc.SubmitAnswers(context.Background(), "quiz1", identity, req)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrQuestionNotFound, domainErr.Code)
	answerGrader.AssertNotCalled(t, "GradeSubmission", mock.Anything, mock.Anything)
}

func TestSubmitAnswersRejectsVerdictForForeignQuestion(t *testing.T) {
	quiz, req := submissionFixture()
	identity := domain.UserIdentity("user1")

	batch := gradedFixture()
	batch.Answers[1].QuestionID = "question-from-another-quiz"

	quizRepo := new(MockQuizRepository)
	subRepo := new(MockSubmissionRepository)
	answerGrader := new(MockAnswerGrader)

	quizRepo.On("GetQuizTree", mock.Anything, "quiz1").Return(quiz, nil)
	subRepo.On("GetQuizScore", mock.Anything, "quiz1", identity).Return(nil, nil)
	answerGrader.On("GradeSubmission", mock.Anything, mock.Anything).Return(batch, nil)

	svc := newSubmissionFixtureService(quizRepo, subRepo, new(MockUserRepository), answerGrader, NewMockEventPublisher())
	_, err := svc.SubmitAnswers(context.Background(), "quiz1", identity, req)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrLLMServiceError, domainErr.Code)
	// Nothing gets persisted for a bad verdict batch.
	subRepo.AssertNotCalled(t, "CreateQuizScore", mock.Anything, mock.Anything)
	subRepo.AssertNotCalled(t, "CreateUserAnswers", mock.Anything, mock.Anything)
}

func TestSubmitAnswersSurfacesConcurrentDuplicate(t *testing.T) {
	quiz, req := submissionFixture()
	identity := domain.UserIdentity("user1")

	quizRepo := new(MockQuizRepository)
	subRepo := new(MockSubmissionRepository)
	answerGrader := new(MockAnswerGrader)

	quizRepo.On("GetQuizTree", mock.Anything, "quiz1").Return(quiz, nil)
	subRepo.On("GetQuizScore", mock.Anything, "quiz1", identity).Return(nil, nil)
	answerGrader.On("GradeSubmission", mock.Anything, mock.Anything).Return(gradedFixture(), nil)
	// The unique index fires when two submissions race past the
	// pre-check.
	subRepo.On("CreateQuizScore", mock.Anything, mock.Anything).Return(domain.NewDuplicateSubmissionError("quiz1"))

	svc := newSubmissionFixtureService(quizRepo, subRepo, new(MockUserRepository), answerGrader, NewMockEventPublisher())
	_, err := svc.SubmitAnswers(context.Background(), "quiz1", identity, req)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrDuplicateSubmission, domainErr.Code)
}

func TestSubmitAnswersRejectsDuplicateQuestionInBatch(t *testing.T) {
	quiz, req := submissionFixture()
	req.Answers[1].QuestionID = "q1"
	identity := domain.UserIdentity("user1")

	quizRepo := new(MockQuizRepository)
	subRepo := new(MockSubmissionRepository)

	quizRepo.On("GetQuizTree", mock.Anything, "quiz1").Return(quiz, nil)
	subRepo.On("GetQuizScore", mock.Anything, "quiz1", identity).Return(nil, nil)

	svc := newSubmissionFixtureService(quizRepo, subRepo, new(MockUserRepository), new(MockAnswerGrader), NewMockEventPublisher())
	_, err := svc.SubmitAnswers(context.Background(), "quiz1", identity, req)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrInvalidInput, domainErr.Code)
}

func TestSubmitAnswersSucceedsWhenNotificationFails(t *testing.T) {
	quiz, req := submissionFixture()
	identity := domain.UserIdentity("user1")

	quizRepo := new(MockQuizRepository)
	subRepo := new(MockSubmissionRepository)
	userRepo := new(MockUserRepository)
	answerGrader := new(MockAnswerGrader)
	publisher := NewMockEventPublisher()

	quizRepo.On("GetQuizTree", mock.Anything, "quiz1").Return(quiz, nil)
	subRepo.On("GetQuizScore", mock.Anything, "quiz1", identity).Return(nil, nil)
	answerGrader.On("GradeSubmission", mock.Anything, mock.Anything).Return(gradedFixture(), nil)
	subRepo.On("CreateQuizScore", mock.Anything, mock.Anything).Return(nil)
	subRepo.On("CreateUserAnswers", mock.Anything, mock.Anything).Return(nil)
	userRepo.On("GetUserByID", mock.Anything, "user1").Return(&domain.User{
		ID:       "user1",
		Username: "learner",
	}, nil)
	userRepo.On("GetUserByID", mock.Anything, "creator1").Return(&domain.User{
		ID:    "creator1",
		Email: "creator@example.com",
	}, nil)
	publisher.On("PublishSubmissionGraded", mock.Anything, mock.Anything).
		Return(errors.New("broker unreachable"))

	svc := newSubmissionFixtureService(quizRepo, subRepo, userRepo, answerGrader, publisher)
	resp, err := svc.SubmitAnswers(context.Background(), "quiz1", identity, req)

	// The notification is fire-and-forget; a broker outage never costs
	// the learner their graded result.
	require.NoError(t, err)
	assert.Equal(t, 30.0, resp.TotalScore)
	publisher.WaitForGraded(t, time.Second)
}

func TestSubmitAnswersGraderFailureLeavesNothingBehind(t *testing.T) {
	quiz, req := submissionFixture()
	identity := domain.UserIdentity("user1")

	quizRepo := new(MockQuizRepository)
	subRepo := new(MockSubmissionRepository)
	answerGrader := new(MockAnswerGrader)

	quizRepo.On("GetQuizTree", mock.Anything, "quiz1").Return(quiz, nil)
	subRepo.On("GetQuizScore", mock.Anything, "quiz1", identity).Return(nil, nil)
	answerGrader.On("GradeSubmission", mock.Anything, mock.Anything).
		Return(nil, domain.NewLLMServiceError(errors.New("model unavailable")))

	svc := newSubmissionFixtureService(quizRepo, subRepo, new(MockUserRepository), answerGrader, NewMockEventPublisher())
	_, err := svc.SubmitAnswers(context.Background(), "quiz1", identity, req)

	require.Error(t, err)
	subRepo.AssertNotCalled(t, "CreateQuizScore", mock.Anything, mock.Anything)
	subRepo.AssertNotCalled(t, "CreateUserAnswers", mock.Anything, mock.Anything)
}

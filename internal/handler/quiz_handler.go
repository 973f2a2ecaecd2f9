package handler

import (
	"quizforge/internal/domain"
	"quizforge/internal/dto"
	"quizforge/internal/middleware"
	"quizforge/internal/service"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler handles quiz lifecycle, submission and reporting requests.
type QuizHandler struct {
	quizService       service.QuizService
	submissionService service.SubmissionService
	analyticsService  service.AnalyticsService
	sessionStore      domain.Cache
}

// NewQuizHandler creates a new QuizHandler instance.
func NewQuizHandler(
	quizService service.QuizService,
	submissionService service.SubmissionService,
	analyticsService service.AnalyticsService,
	sessionStore domain.Cache,
) *QuizHandler {
	return &QuizHandler{
		quizService:       quizService,
		submissionService: submissionService,
		analyticsService:  analyticsService,
		sessionStore:      sessionStore,
	}
}

// GenerateQuiz godoc
// @Summary Generate a quiz
// @Description Generates a quiz with the LLM and persists it
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuizRequest true "Generation request"
// @Success 201 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Security BearerAuth
// @Router /quizzes [post]
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.quizService.GenerateQuiz(c.Context(), middleware.AuthenticatedUserID(c), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetQuiz godoc
// @Summary Get a quiz
// @Description Returns the quiz with its questions and answers
// @Tags quiz
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	resp, err := h.quizService.GetQuiz(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// UpdateQuiz godoc
// @Summary Update a quiz
// @Description Reconciles the stored quiz toward the submitted tree
// @Tags quiz
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param request body dto.UpdateQuizRequest true "Target quiz tree"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Security BearerAuth
// @Router /quizzes/{id} [put]
func (h *QuizHandler) UpdateQuiz(c *fiber.Ctx) error {
	var req dto.UpdateQuizRequest
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.quizService.UpdateQuiz(c.Context(), c.Params("id"), middleware.AuthenticatedUserID(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DeleteQuiz godoc
// @Summary Delete a quiz
// @Description Deletes the quiz and everything under it
// @Tags quiz
// @Param id path string true "Quiz ID"
// @Success 204
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Security BearerAuth
// @Router /quizzes/{id} [delete]
func (h *QuizHandler) DeleteQuiz(c *fiber.Ctx) error {
	if err := h.quizService.DeleteQuiz(c.Context(), c.Params("id"), middleware.AuthenticatedUserID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SubmitAnswers godoc
// @Summary Submit answers for grading
// @Description Grades the whole submission once and stores the result
// @Tags submission
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param request body dto.SubmitAnswersRequest true "Submission batch"
// @Success 200 {object} dto.SubmissionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /quizzes/{id}/submissions [post]
func (h *QuizHandler) SubmitAnswers(c *fiber.Ctx) error {
	var req dto.SubmitAnswersRequest
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}

	identity := middleware.ResolveIdentity(c)
	if req.Guest != "" && identity.IsGuest() {
		// A caller-supplied label becomes the session's durable guest
		// identity, not a one-request alias.
		identity = domain.GuestIdentity(req.Guest)
		middleware.PersistGuestLabel(c, h.sessionStore, req.Guest)
	}

	resp, err := h.submissionService.SubmitAnswers(c.Context(), c.Params("id"), identity, &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetQuizReport godoc
// @Summary Get the creator's quiz report
// @Description Returns the quiz with every participant's graded answers
// @Tags quiz
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.ReportResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Security BearerAuth
// @Router /quizzes/{id}/report [get]
func (h *QuizHandler) GetQuizReport(c *fiber.Ctx) error {
	resp, err := h.analyticsService.GetQuizReport(c.Context(), c.Params("id"), middleware.AuthenticatedUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetQuizAnalytics godoc
// @Summary Get quiz analytics
// @Description Returns the participant count and hardest questions
// @Tags quiz
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.AnalyticsResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Security BearerAuth
// @Router /quizzes/{id}/analytics [get]
func (h *QuizHandler) GetQuizAnalytics(c *fiber.Ctx) error {
	resp, err := h.analyticsService.GetQuizAnalytics(c.Context(), c.Params("id"), middleware.AuthenticatedUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

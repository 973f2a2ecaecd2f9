package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"quizforge/internal/domain"
	"quizforge/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newErrorApp(err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return err
	})
	return app
}

func TestErrorHandlerMapsDomainErrorCodes(t *testing.T) {
	tests := []struct {
		name           string
		err            *domain.DomainError
		expectedStatus int
	}{
		{"not found", domain.NewNotFoundError("gone"), http.StatusNotFound},
		{"quiz not found", domain.NewQuizNotFoundError("quiz1"), http.StatusNotFound},
		{"question not found", domain.NewQuestionNotFoundError("q1"), http.StatusNotFound},
		{"invalid input", domain.NewValidationError("bad"), http.StatusBadRequest},
		{"integrity violation", domain.NewDatabaseIntegrityError(errors.New("ORA-02291")), http.StatusBadRequest},
		{"duplicate submission", domain.NewDuplicateSubmissionError("quiz1"), http.StatusConflict},
		{"unauthorized", domain.NewError(domain.ErrUnauthorized, "no", nil), http.StatusUnauthorized},
		{"forbidden", domain.NewForbiddenError("no"), http.StatusForbidden},
		{"llm failure", domain.NewLLMServiceError(errors.New("down")), http.StatusServiceUnavailable},
		{"internal", domain.NewInternalError("oops", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newErrorApp(tt.err)
			resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			var body middleware.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, string(tt.err.Code), body.Code)
			assert.Equal(t, tt.expectedStatus, body.Status)
		})
	}
}

func TestErrorHandlerPassesThroughFiberErrors(t *testing.T) {
	app := newErrorApp(fiber.ErrTeapot)
	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)

	var body middleware.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "HTTP_ERROR", body.Code)
}

func TestErrorHandlerHidesUnknownErrors(t *testing.T) {
	app := newErrorApp(errors.New("secret internal detail"))
	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body middleware.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, string(domain.ErrInternal), body.Code)
	assert.NotContains(t, body.Message, "secret")
}

package handler

import (
	"quizforge/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// parseAndValidate binds the JSON body into dst and runs the struct
// validation tags. Failures surface as INVALID_INPUT domain errors so
// the central error handler renders a 400.
func parseAndValidate(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return domain.NewValidationError("request body is not valid JSON")
	}
	if err := validate.Struct(dst); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return domain.NewValidationError("invalid field " + fe.Field() + ": failed " + fe.Tag() + " validation")
		}
		return domain.NewValidationError("request validation failed")
	}
	return nil
}

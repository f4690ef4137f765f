package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/zluffi/zluffi-backend/internal/dto"
	"github.com/zluffi/zluffi-backend/internal/services"
)

// validationError writes the structured 400 body when err is a
// services.ValidationError, and reports whether it handled it.
func validationError(c *fiber.Ctx, err error) (bool, error) {
	var v *services.ValidationError
	if !errors.As(err, &v) {
		return false, nil
	}
	return true, c.Status(fiber.StatusBadRequest).JSON(dto.ValidationErrorResponse{
		Error:   true,
		Message: "Invalid input",
		Errors:  v.Fields,
	})
}

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

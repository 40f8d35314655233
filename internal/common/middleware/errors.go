package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v3"
)

// ErrorHandler answers every handler error as {"error": message}. Messages
// of non-fiber errors stay in the logs.
func ErrorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}

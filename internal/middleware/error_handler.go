package middleware

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// GenericErrorMessage is the message of every response produced by ErrorHandler.
const GenericErrorMessage = "An unexpected error occurred on the server."

// ErrorResponse is the body sent for unhandled failures.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// ErrorHandler is the last-resort error boundary. Any error returned by a later
// handler, and any panic, is logged and answered with a 500 ErrorResponse.
// Routing errors raised by fiber itself (*fiber.Error) pass through untouched.
func ErrorHandler(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				panicErr, ok := r.(error)
				if !ok {
					panicErr = fmt.Errorf("%v", r)
				}
				err = respondUnhandled(c, logger, panicErr, true)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return err
		}
		return respondUnhandled(c, logger, err, false)
	}
}

func respondUnhandled(c *fiber.Ctx, logger *zap.Logger, err error, panicked bool) error {
	logger.Error("Unhandled error",
		zap.Error(err),
		zap.Bool("panic", panicked),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.String("request_id", RequestIDFrom(c)),
		zap.Stack("stack"),
	)

	// Drops anything already written, a pending body stream included.
	c.Response().ResetBody()
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Success: false,
		Message: GenericErrorMessage,
		Detail:  err.Error(),
	})
}

package mockapi

import (
	"errors"
	"log/slog"
	"time"

	"codego/internal/models"
	"codego/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// contextMiddleware copies the request id onto the user context as the
// correlation id so handler logs line up with the client's.
func contextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			c.SetUserContext(observability.WithCorrelationID(c.UserContext(), rid))
		}
		return c.Next()
	}
}

// structuredLogger logs one line per request.
func structuredLogger(logger *observability.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		fields := []any{
			slog.Int("status", c.Response().StatusCode()),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Duration("latency", time.Since(start)),
		}
		if err != nil {
			fields = append(fields, slog.String("error", err.Error()))
			logger.ErrorContext(c.UserContext(), "request failed", fields...)
		} else {
			logger.DebugContext(c.UserContext(), "request processed", fields...)
		}
		return err
	}
}

// respondWithError writes the JSON error body the client decodes.
func respondWithError(c *fiber.Ctx, status int, err error) error {
	var response models.ErrorResponse
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		response = models.ErrorResponse{Error: appErr.Message, Code: appErr.Code}
	} else {
		response = models.ErrorResponse{Error: err.Error()}
	}
	return c.Status(status).JSON(response)
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	}
	return respondWithError(c, status, err)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return respondWithError(c, fiber.StatusBadRequest, models.NewValidationError(msg))
}

func notFound(c *fiber.Ctx, resource, id string) error {
	return respondWithError(c, fiber.StatusNotFound, models.NewNotFoundError(resource, id))
}

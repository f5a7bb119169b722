package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/yatra/internal/core/domain"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, validation_error, not_found, internal_error, etc.
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, 400, "bad_request", msg)
}

// errValidation returns a 400 error carrying a user-facing message.
func errValidation(c *fiber.Ctx, msg string) error {
	return newError(c, 400, "validation_error", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, 404, "not_found", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, 500, "internal_error", msg)
}

// errConflict returns a 409 error.
func errConflict(c *fiber.Ctx, msg string) error {
	return newError(c, 409, "conflict", msg)
}

// errUnavailable returns a 503 error.
func errUnavailable(c *fiber.Ctx, msg string) error {
	return newError(c, 503, "unavailable", msg)
}

// fail maps a usecase error onto the matching API error. what names the
// resource for not-found and conflict messages.
func fail(c *fiber.Ctx, err error, what string) error {
	if v, ok := domain.AsValidation(err); ok {
		return errValidation(c, v.Message)
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return errNotFound(c, what+" not found")
	case errors.Is(err, domain.ErrConflict):
		return errConflict(c, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return newError(c, 408, "request_timeout", "request timed out")
	}
	LoggerFromCtx(c.UserContext()).Error("request failed", "path", c.Path(), "error", err)
	return errInternal(c, "internal server error")
}

// clientID identifies the caller's banner queue: the X-Client-ID header,
// or the remote IP when absent.
func clientID(c *fiber.Ctx) string {
	if id := c.Get("X-Client-ID"); id != "" {
		return id
	}
	return c.IP()
}

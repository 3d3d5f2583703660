package gatekeeper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Error kinds. Operations wrap these with fmt.Errorf("...: %w", Err...)
// so callers can branch with errors.Is while keeping a readable message.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidState = errors.New("invalid state")
	ErrBadRequest   = errors.New("bad request")
	ErrForbidden    = errors.New("forbidden")
	ErrInternal     = errors.New("internal error")
)

// StatusCode maps an error to the HTTP status the API responds with.
// Unknown errors are reported as 500 without leaking internal detail.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrInvalidState), errors.Is(err, ErrBadRequest):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

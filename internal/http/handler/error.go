package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/marlosirapuan/doc-sign-web/internal/backend"
	"github.com/marlosirapuan/doc-sign-web/internal/http/middleware"
	"github.com/marlosirapuan/doc-sign-web/internal/service"
	"github.com/marlosirapuan/doc-sign-web/internal/signature"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking
// internal details to the user.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// mapDomainError converts controller/transport errors into the uniform error
// payload. Raw upstream detail stays in logs only.
func mapDomainError(c *fiber.Ctx, err error) error {
	var verr *signature.ValidationError
	switch {
	case errors.As(err, &verr):
		return writeError(c, fiber.StatusBadRequest, strings.ToUpper(verr.Reason), "signature is missing or invalid")
	case errors.Is(err, service.ErrMissingFile):
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "document file is required")
	case errors.Is(err, service.ErrConfirmationRequired):
		return writeError(c, fiber.StatusPreconditionRequired, "CONFIRMATION_REQUIRED", "delete requires confirmation")
	case errors.Is(err, backend.ErrAuthExpired):
		return writeError(c, fiber.StatusUnauthorized, "AUTH_EXPIRED", "session expired, please sign in again")
	case errors.Is(err, backend.ErrInvalidCredentials):
		return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
	default:
		var terr *backend.TransportError
		if errors.As(err, &terr) {
			return writeError(c, fiber.StatusBadGateway, "TRANSPORT_ERROR", "signing service request failed")
		}
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error
// responses for anything not already mapped by a handler.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHENTICATED", "authentication required")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}

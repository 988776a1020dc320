package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"claims-triage/internal/domain/entity"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
)

type errorBody struct {
	Code    entity.ErrorCode `json:"code"`
	Message string           `json:"message"`
	Details any              `json:"details"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// ErrorHandler renders every error as {"error":{code,message,details}}.
// Only 5xx responses are logged.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := resolveError(err)
		if status >= http.StatusInternalServerError {
			logger.ErrorContext(c.UserContext(), "request failed",
				"method", c.Method(),
				"path", c.OriginalURL(),
				"status", status,
				"error", fmt.Sprintf("%+v", err))
		}
		return c.Status(status).JSON(errorEnvelope{Error: body})
	}
}

func resolveError(err error) (int, errorBody) {
	var appErr *entity.AppError
	if errors.As(err, &appErr) {
		return statusForCode(appErr.Code), errorBody{Code: appErr.Code, Message: appErr.Message, Details: appErr.Details}
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, errorBody{Code: codeForStatus(fiberErr.Code), Message: fiberErr.Message}
	}

	return http.StatusInternalServerError, errorBody{Code: entity.CodeInternal, Message: "Internal server error"}
}

func statusForCode(code entity.ErrorCode) int {
	switch code {
	case entity.CodeValidation:
		return http.StatusBadRequest
	case entity.CodeNotFound:
		return http.StatusNotFound
	case entity.CodeRateLimited:
		return http.StatusTooManyRequests
	case entity.CodeAI:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func codeForStatus(status int) entity.ErrorCode {
	switch {
	case status == http.StatusNotFound:
		return entity.CodeNotFound
	case status == http.StatusTooManyRequests:
		return entity.CodeRateLimited
	case status == http.StatusBadGateway:
		return entity.CodeAI
	case status >= http.StatusInternalServerError:
		return entity.CodeInternal
	}
	return entity.CodeValidation
}

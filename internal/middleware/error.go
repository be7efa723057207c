package middleware

import (
	"errors"
	"net/http"

	"interview-coach/internal/domain"
	"interview-coach/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Status  int                    `json:"status"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ValidationErrorResponse lists the rejected fields.
type ValidationErrorResponse struct {
	Code    string                   `json:"code"`
	Message string                   `json:"message"`
	Status  int                      `json:"status"`
	Errors  []domain.ValidationError `json:"errors"`
}

var codeStatus = map[domain.ErrorCode]int{
	domain.CodeNotFound:              http.StatusNotFound,
	domain.CodeInvalidInput:          http.StatusBadRequest,
	domain.CodeValidation:            http.StatusBadRequest,
	domain.CodeMissingField:          http.StatusBadRequest,
	domain.CodeInvalidFormat:         http.StatusBadRequest,
	domain.CodeOutOfRange:            http.StatusBadRequest,
	domain.CodeMissingQuestionColumn: http.StatusBadRequest,
	domain.CodeUnauthorized:          http.StatusUnauthorized,
	domain.CodeEmailNotVerified:      http.StatusForbidden,
	domain.CodeConflict:              http.StatusConflict,
	domain.CodeNetwork:               http.StatusBadGateway,
	domain.CodeLLMServiceError:       http.StatusServiceUnavailable,
}

func statusFor(code domain.ErrorCode) int {
	if s, ok := codeStatus[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// toResponse classifies err into a status and a response body. Messages are
// the localized texts shown to the user.
func toResponse(err error) (int, interface{}) {
	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		return http.StatusBadRequest, ValidationErrorResponse{
			Code:    string(domain.CodeValidation),
			Message: domain.MsgInvalidInput,
			Status:  http.StatusBadRequest,
			Errors:  verrs,
		}
	}

	var de *domain.DomainError
	if errors.As(err, &de) {
		status := statusFor(de.Code)
		return status, ErrorResponse{
			Code:    string(de.Code),
			Message: domain.UserMessage(err),
			Status:  status,
			Details: de.Context,
		}
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message, Status: fe.Code}
	}

	if domain.KindOf(err) == domain.KindNetwork {
		return http.StatusBadGateway, ErrorResponse{
			Code:    string(domain.CodeNetwork),
			Message: domain.MsgNetwork,
			Status:  http.StatusBadGateway,
		}
	}
	return http.StatusInternalServerError, ErrorResponse{
		Code:    string(domain.CodeInternal),
		Message: domain.MsgUnknown,
		Status:  http.StatusInternalServerError,
	}
}

// ErrorHandler renders errors returned by handlers and middleware.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := toResponse(err)

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Error(err),
		}
		if id, ok := c.Locals(UserIDKey).(string); ok {
			fields = append(fields, zap.String("userID", id))
		}
		if status >= http.StatusInternalServerError {
			logger.Get().Error("Request failed", fields...)
		} else {
			logger.Get().Warn("Request rejected", fields...)
		}
		return c.Status(status).JSON(body)
	}
}

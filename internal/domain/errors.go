package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeConflict     ErrorCode = "CONFLICT"
	CodeNetwork      ErrorCode = "NETWORK_ERROR"

	// validation
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	CodeLLMServiceError       ErrorCode = "LLM_SERVICE_ERROR"
	CodeEmailNotVerified      ErrorCode = "EMAIL_NOT_VERIFIED"
	CodeMissingQuestionColumn ErrorCode = "MISSING_QUESTION_COLUMN"
	CodePartialCompletion     ErrorCode = "PARTIAL_COMPLETION"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Context map[string]interface{} `json:"context,omitempty"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
		Context: e.Context,
	})
}

// WithContext attaches a key/value pair rendered in error responses.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

func NewConflictError(message string) *DomainError {
	return NewError(CodeConflict, message, nil)
}

func NewNetworkError(message string, cause error) *DomainError {
	return NewError(CodeNetwork, message, cause)
}

func NewLLMServiceError(cause error) *DomainError {
	return NewError(CodeLLMServiceError, "Failed to process with LLM service", cause)
}

// ValidationError describes one invalid field.
type ValidationError struct {
	Field   string      `json:"field"`
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is returned when one or more fields are invalid.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return "Invalid input: " + strings.Join(msgs, "; ")
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Code: CodeMissingField, Message: "field is required"}
}

func NewInvalidFormatError(field string, value interface{}) ValidationError {
	return ValidationError{Field: field, Code: CodeInvalidFormat, Message: "field has an invalid format", Value: value}
}

func NewOutOfRangeError(field string, value interface{}, min, max int) ValidationError {
	return ValidationError{
		Field:   field,
		Code:    CodeOutOfRange,
		Message: fmt.Sprintf("value must be between %d and %d", min, max),
		Value:   value,
	}
}

// ErrorKind is the coarse classification callers branch on.
type ErrorKind string

const (
	KindNone       ErrorKind = ""
	KindValidation ErrorKind = "validation"
	KindNetwork    ErrorKind = "network"
	KindNotFound   ErrorKind = "not_found"
	KindAuth       ErrorKind = "auth"
	KindInternal   ErrorKind = "internal"
)

// KindOf classifies err. Network failures are recognised through net.Error and
// deadline errors even when they are not wrapped in a DomainError.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return KindValidation
	}
	var verr ValidationError
	if errors.As(err, &verr) {
		return KindValidation
	}

	var de *DomainError
	if errors.As(err, &de) {
		switch de.Code {
		case CodeInvalidInput, CodeValidation, CodeMissingField, CodeInvalidFormat,
			CodeOutOfRange, CodeMissingQuestionColumn, CodeConflict:
			return KindValidation
		case CodeNotFound:
			return KindNotFound
		case CodeUnauthorized, CodeEmailNotVerified:
			return KindAuth
		case CodeNetwork, CodeLLMServiceError:
			return KindNetwork
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return KindNetwork
	}
	return KindInternal
}

// User-facing messages shown by the client.
const (
	MsgInvalidCredentials = "이메일 또는 비밀번호가 올바르지 않습니다."
	MsgInvalidInput       = "입력값을 확인해주세요."
	MsgNetwork            = "네트워크 연결을 확인해주세요."
	MsgNotFound           = "요청한 정보를 찾을 수 없습니다."
	MsgAuth               = "로그인이 필요합니다."
	MsgEmailNotVerified   = "이메일 인증을 완료해주세요."
	MsgAlreadyExists      = "이미 등록된 정보입니다."
	MsgUnknown            = "알 수 없는 오류가 발생했습니다. 잠시 후 다시 시도해주세요."
)

// UserMessage maps err to a localized message. Known substrings of the
// underlying text win over the coarse kind.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var de *DomainError
	if errors.As(err, &de) && de.Code == CodePartialCompletion {
		return de.Message
	}

	text := err.Error()
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(text, "Invalid login credentials"):
		return MsgInvalidCredentials
	case strings.Contains(text, "Network"), strings.Contains(lower, "timeout"),
		strings.Contains(lower, "connection refused"):
		return MsgNetwork
	case strings.Contains(lower, "already"):
		return MsgAlreadyExists
	case strings.Contains(text, "Invalid"):
		return MsgInvalidInput
	}

	switch KindOf(err) {
	case KindValidation:
		return MsgInvalidInput
	case KindNetwork:
		return MsgNetwork
	case KindNotFound:
		return MsgNotFound
	case KindAuth:
		if errors.As(err, &de) && de.Code == CodeEmailNotVerified {
			return MsgEmailNotVerified
		}
		return MsgAuth
	default:
		return MsgUnknown
	}
}

// Package errors provides standardized error handling for the validation API.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Model gateway. Both are absorbed with mock data and only surface in logs and metrics.
	ErrCodeTransportFailure ErrorCode = "TRANSPORT_FAILURE"
	ErrCodeShapeError       ErrorCode = "SHAPE_ERROR"

	// Report handling
	ErrCodeMalformedResponse ErrorCode = "MALFORMED_RESPONSE"
	ErrCodeInvalidReport     ErrorCode = "INVALID_REPORT"
	ErrCodeInvalidForm       ErrorCode = "INVALID_FORM"
	ErrCodeInvalidRequest    ErrorCode = "INVALID_REQUEST"

	// Record store
	ErrCodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodeForbidden        ErrorCode = "FORBIDDEN"

	// Auth
	ErrCodeUnauthorized           ErrorCode = "UNAUTHORIZED"
	ErrCodeAuthServiceUnavailable ErrorCode = "AUTH_SERVICE_UNAVAILABLE"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// UserNoticeValidationFailed is the only model-path failure text users ever see.
const UserNoticeValidationFailed = "Failed to validate your idea. Please try again."

const (
	UserNoticeValidated  = "Your idea has been validated successfully!"
	UserNoticeSaveFailed = "Your idea was validated, but it could not be saved to your history."
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is matches another *StandardError by code, so errors.Is(err, &StandardError{Code: ErrCodeNotFound}) works.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithMetadata returns the error with key set in Metadata.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewTransportFailureError describes a failed or non-2xx model call.
func NewTransportFailureError(status int, body string) *StandardError {
	return newError(ErrCodeTransportFailure, "Model endpoint call failed",
		fmt.Sprintf("status: %d, body: %s", status, body), true)
}

// NewShapeError describes a model reply without candidate text.
func NewShapeError(details string) *StandardError {
	return newError(ErrCodeShapeError, "Model reply missing candidate content", details, true)
}

// NewMalformedResponseError carries the raw text for diagnostics. The message is the user notice.
func NewMalformedResponseError(raw string) *StandardError {
	return newError(ErrCodeMalformedResponse, UserNoticeValidationFailed, "", true).
		WithMetadata("raw", raw)
}

// NewInvalidReportError is returned when schema validation rejects a normalized report.
func NewInvalidReportError(reason string) *StandardError {
	return newError(ErrCodeInvalidReport, UserNoticeValidationFailed, reason, true)
}

func NewInvalidFormError(details string) *StandardError {
	return newError(ErrCodeInvalidForm, "Please fill in at least the idea title and description", details, false)
}

func NewInvalidRequestError(details string) *StandardError {
	return newError(ErrCodeInvalidRequest, "Invalid request body", details, false)
}

// NewStoreUnavailableError wraps a backend failure of the record store.
func NewStoreUnavailableError(op string, err error) *StandardError {
	return newError(ErrCodeStoreUnavailable, "Validation history is temporarily unavailable",
		fmt.Sprintf("op: %s, error: %s", op, errString(err)), true)
}

func NewNotFoundError(recordID string) *StandardError {
	return newError(ErrCodeNotFound, "Validation record not found",
		fmt.Sprintf("recordId: %s", recordID), false)
}

func NewForbiddenError(recordID string) *StandardError {
	return newError(ErrCodeForbidden, "Validation record belongs to another user",
		fmt.Sprintf("recordId: %s", recordID), false)
}

func NewUnauthorizedError(details string) *StandardError {
	return newError(ErrCodeUnauthorized, "Authentication required", details, false)
}

func NewAuthServiceUnavailableError(err error) *StandardError {
	return newError(ErrCodeAuthServiceUnavailable, "Authentication service unavailable", errString(err), true)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", errString(err), false)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ==========================
// 3. Error Mapping
// ==========================

// HTTPStatusMapping maps error codes to response statuses.
var HTTPStatusMapping = map[ErrorCode]int{
	ErrCodeTransportFailure:       http.StatusBadGateway,
	ErrCodeShapeError:             http.StatusBadGateway,
	ErrCodeMalformedResponse:      http.StatusUnprocessableEntity,
	ErrCodeInvalidReport:          http.StatusUnprocessableEntity,
	ErrCodeInvalidForm:            http.StatusBadRequest,
	ErrCodeInvalidRequest:         http.StatusBadRequest,
	ErrCodeStoreUnavailable:       http.StatusServiceUnavailable,
	ErrCodeNotFound:               http.StatusNotFound,
	ErrCodeForbidden:              http.StatusForbidden,
	ErrCodeUnauthorized:           http.StatusUnauthorized,
	ErrCodeAuthServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeInternal:               http.StatusInternalServerError,
}

// GetHTTPStatus returns the response status for a code, 500 when unmapped.
func GetHTTPStatus(code ErrorCode) int {
	if status, ok := HTTPStatusMapping[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// AsStandardError normalizes any error to a *StandardError.
func AsStandardError(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// HasCode reports whether err is a StandardError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	return stderrors.As(err, &stdErr) && stdErr.Code == code
}

// ==========================
// 4. Utility Functions
// ==========================

// IsRetryableErrorCode reports whether the client may retry the same request.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeTransportFailure,
		ErrCodeShapeError,
		ErrCodeMalformedResponse,
		ErrCodeInvalidReport,
		ErrCodeStoreUnavailable,
		ErrCodeAuthServiceUnavailable:
		return true
	default:
		return false
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case code == ErrCodeTransportFailure || code == ErrCodeShapeError:
		return "MODEL"
	case code == ErrCodeMalformedResponse || strings.Contains(codeStr, "REPORT"):
		return "REPORT"
	case strings.Contains(codeStr, "STORE") || code == ErrCodeNotFound || code == ErrCodeForbidden:
		return "STORE"
	case strings.Contains(codeStr, "AUTH"):
		return "AUTH"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}

package utils

import "fmt"

// ErrorKind classifies a failure so callers can branch on kind rather than
// matching message strings.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindConflict     ErrorKind = "conflict"
	KindUnauthorized ErrorKind = "unauthorized"
	KindNotFound     ErrorKind = "not_found"
	KindRateLimited  ErrorKind = "rate_limited"
	KindInternal     ErrorKind = "internal"
)

// AppError is the error type surfaced by the availability and booking
// services. Code is a stable machine-readable identifier; Field is set for
// field-scoped validation failures.
type AppError struct {
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Retryable reports whether the caller may safely retry the same call.
// Rate-limited calls may be retried after the window elapses; internal
// failures may be retried on the read side.
func (e *AppError) Retryable() bool {
	return e.Kind == KindRateLimited || e.Kind == KindInternal
}

func ValidationError(code, field, message string) *AppError {
	return &AppError{Kind: KindValidation, Code: code, Field: field, Message: message}
}

func ConflictError(code, message string) *AppError {
	return &AppError{Kind: KindConflict, Code: code, Message: message}
}

func UnauthorizedError(code, message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Code: code, Message: message}
}

func NotFoundError(code, message string) *AppError {
	return &AppError{Kind: KindNotFound, Code: code, Message: message}
}

func RateLimitedError(code, message string) *AppError {
	return &AppError{Kind: KindRateLimited, Code: code, Message: message}
}

func InternalError(message string, err error) *AppError {
	if err != nil {
		message = fmt.Sprintf("%s: %v", message, err)
	}
	return &AppError{Kind: KindInternal, Code: "INTERNAL_ERROR", Message: message}
}

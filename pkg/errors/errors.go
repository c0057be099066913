package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode represents application error codes
type ErrorCode string

const (
	ErrCodeInvalidRequest         ErrorCode = "INVALID_REQUEST"
	ErrCodeInvalidToken           ErrorCode = "INVALID_TOKEN"
	ErrCodeExpiredToken           ErrorCode = "EXPIRED_TOKEN"
	ErrCodeInsufficientPermission ErrorCode = "INSUFFICIENT_PERMISSION"
	ErrCodeBlockedClient          ErrorCode = "BLOCKED_CLIENT"
	ErrCodeSuspiciousRequest      ErrorCode = "SUSPICIOUS_REQUEST"
	ErrCodeStreamLimitExceeded    ErrorCode = "STREAM_LIMIT_EXCEEDED"
	ErrCodeRateLimitExceeded      ErrorCode = "RATE_LIMIT_EXCEEDED"
	ErrCodeNotEntitled            ErrorCode = "NOT_ENTITLED"
	ErrCodeInternal               ErrorCode = "INTERNAL_ERROR"
)

// AppError represents an application error with code and context
type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
	Context    map[string]interface{}
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Context:    make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with application error
func WrapError(err error, code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Cause:      err,
		Context:    make(map[string]interface{}),
	}
}

// Common error constructors
func NewInvalidRequestError(message string) *AppError {
	return NewAppError(ErrCodeInvalidRequest, message, http.StatusBadRequest)
}

func NewInvalidTokenError(message string) *AppError {
	return NewAppError(ErrCodeInvalidToken, message, http.StatusUnauthorized)
}

func NewExpiredTokenError() *AppError {
	return NewAppError(ErrCodeExpiredToken, "access token expired", http.StatusUnauthorized)
}

func NewInsufficientPermissionError() *AppError {
	return NewAppError(ErrCodeInsufficientPermission, "token does not grant the required permission", http.StatusUnauthorized)
}

func NewBlockedClientError() *AppError {
	return NewAppError(ErrCodeBlockedClient, "client is not permitted to access protected media", http.StatusForbidden)
}

func NewSuspiciousRequestError() *AppError {
	return NewAppError(ErrCodeSuspiciousRequest, "request is missing expected client headers", http.StatusForbidden)
}

func NewStreamLimitExceededError() *AppError {
	return NewAppError(ErrCodeStreamLimitExceeded, "concurrent stream limit exceeded", http.StatusTooManyRequests)
}

func NewRateLimitExceededError(retryAfterSeconds int) *AppError {
	return NewAppError(ErrCodeRateLimitExceeded, "rate limit exceeded", http.StatusTooManyRequests).
		WithContext("retry_after", retryAfterSeconds)
}

func NewNotEntitledError() *AppError {
	return NewAppError(ErrCodeNotEntitled, "user is not entitled to this content", http.StatusForbidden)
}

func NewInternalError(message string) *AppError {
	return NewAppError(ErrCodeInternal, message, http.StatusInternalServerError)
}

// IsAppError checks if error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError extracts AppError from error chain
func GetAppError(err error) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := err.(*AppError); ok {
		return appErr
	}

	type unwrapper interface {
		Unwrap() error
	}

	if u, ok := err.(unwrapper); ok {
		return GetAppError(u.Unwrap())
	}

	return nil
}

// Package errors provides custom error types for the Kapital API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound      = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail    = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
	ErrDuplicateUsername = &AppError{Code: "DUPLICATE_USERNAME", Message: "A user with this username already exists", StatusCode: http.StatusConflict}
)

// Preference errors.
var (
	ErrPreferencesNotSet = &AppError{Code: "PREFERENCES_NOT_SET", Message: "Investment preferences have not been set", StatusCode: http.StatusNotFound}
)

// Catalog errors.
var (
	ErrSecurityNotFound   = &AppError{Code: "SECURITY_NOT_FOUND", Message: "Security not found", StatusCode: http.StatusNotFound}
	ErrQuoteUnavailable   = &AppError{Code: "QUOTE_UNAVAILABLE", Message: "Market data is currently unavailable for this symbol", StatusCode: http.StatusBadGateway}
	ErrHistoryUnavailable = &AppError{Code: "HISTORY_UNAVAILABLE", Message: "Historical data is currently unavailable for this symbol", StatusCode: http.StatusBadGateway}
)

// Portfolio errors.
var (
	ErrPortfolioNotFound     = &AppError{Code: "PORTFOLIO_NOT_FOUND", Message: "Portfolio not found", StatusCode: http.StatusNotFound}
	ErrPortfolioItemNotFound = &AppError{Code: "PORTFOLIO_ITEM_NOT_FOUND", Message: "Portfolio item not found", StatusCode: http.StatusNotFound}
)

// News errors.
var (
	ErrNewsRateLimited = &AppError{Code: "NEWS_RATE_LIMITED", Message: "News provider request limit reached", StatusCode: http.StatusTooManyRequests}
	ErrNewsUnavailable = &AppError{Code: "NEWS_UNAVAILABLE", Message: "News provider is currently unavailable", StatusCode: http.StatusBadGateway}
)

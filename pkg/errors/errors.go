package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/retailku/order-admin/pkg/i18n"
)

// Standard error types
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
	ErrConflict     = errors.New("resource conflict")
	ErrInternal     = errors.New("internal server error")
	ErrValidation   = errors.New("validation error")
	ErrStore        = errors.New("document store error")
	ErrViewLoading  = errors.New("view is loading")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// AppError represents an application error with context
type AppError struct {
	Err        error             `json:"-"`
	Message    string            `json:"message"`
	MessageKey string            `json:"-"` // i18n key for localization
	Params     map[string]string `json:"-"` // Parameters for i18n interpolation
	Code       string            `json:"code"`
	StatusCode int               `json:"status_code"`
	Details    map[string]string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Localize returns a localized version of the error message
func (e *AppError) Localize(ctx context.Context) string {
	return e.LocalizeWith(i18n.LocalizerFromContext(ctx))
}

// LocalizeWith returns a localized version using a specific localizer
func (e *AppError) LocalizeWith(l *i18n.Localizer) string {
	if e.MessageKey == "" {
		return e.Message
	}
	return l.T(e.MessageKey, e.Params)
}

// New creates a new AppError
func New(code string, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, code string, message string, statusCode int) *AppError {
	return &AppError{
		Err:        err,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// WithDetails adds details to an AppError
func (e *AppError) WithDetails(details map[string]string) *AppError {
	e.Details = details
	return e
}

// Common error constructors

// NotFound builds a 404 for a resource given by its i18n key under
// "resources", e.g. NotFound("order").
func NotFound(resourceKey string) *AppError {
	resourceName := i18n.TWithLocale(i18n.LocaleEnglish, "resources."+resourceKey)
	return &AppError{
		Err:        ErrNotFound,
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resourceName),
		MessageKey: "errors.not_found",
		Params:     map[string]string{"resource": i18n.T("resources." + resourceKey)},
		StatusCode: http.StatusNotFound,
	}
}

func Unauthorized(message string) *AppError {
	return &AppError{
		Err:        ErrUnauthorized,
		Code:       "UNAUTHORIZED",
		Message:    message,
		MessageKey: "errors.unauthorized",
		StatusCode: http.StatusUnauthorized,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Err:        ErrForbidden,
		Code:       "FORBIDDEN",
		Message:    message,
		MessageKey: "errors.forbidden",
		StatusCode: http.StatusForbidden,
	}
}

func BadRequest(message string) *AppError {
	return &AppError{
		Err:        ErrBadRequest,
		Code:       "BAD_REQUEST",
		Message:    message,
		MessageKey: "errors.bad_request",
		StatusCode: http.StatusBadRequest,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:        ErrConflict,
		Code:       "CONFLICT",
		Message:    message,
		MessageKey: "errors.conflict",
		StatusCode: http.StatusConflict,
	}
}

func Internal(message string) *AppError {
	return &AppError{
		Err:        ErrInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		MessageKey: "errors.internal",
		StatusCode: http.StatusInternalServerError,
	}
}

func Validation(details map[string]string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		Code:       "VALIDATION_ERROR",
		Message:    "validation failed",
		MessageKey: "errors.validation_failed",
		StatusCode: http.StatusBadRequest,
		Details:    details,
	}
}

// InvalidStatus rejects a status outside the order status vocabulary.
func InvalidStatus(status string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		Code:       "VALIDATION_ERROR",
		Message:    fmt.Sprintf("unknown status %q", status),
		MessageKey: "errors.invalid_status",
		Params:     map[string]string{"status": status},
		StatusCode: http.StatusBadRequest,
		Details:    map[string]string{"status": "must be one of the order statuses"},
	}
}

// Store wraps a failed call to the document store.
func Store(err error) *AppError {
	e := Wrap(fmt.Errorf("%w: %w", ErrStore, err), "STORE_ERROR", "document store unavailable", http.StatusBadGateway)
	e.MessageKey = "errors.store_unavailable"
	return e
}

// ViewLoading rejects a mutation against a view whose load has not finished.
func ViewLoading() *AppError {
	return &AppError{
		Err:        ErrViewLoading,
		Code:       "VIEW_LOADING",
		Message:    "orders are still loading",
		MessageKey: "errors.view_loading",
		StatusCode: http.StatusConflict,
	}
}

func TokenExpired() *AppError {
	return &AppError{
		Err:        ErrTokenExpired,
		Code:       "TOKEN_EXPIRED",
		Message:    "token has expired",
		MessageKey: "errors.token_expired",
		StatusCode: http.StatusUnauthorized,
	}
}

func TokenInvalid() *AppError {
	return &AppError{
		Err:        ErrTokenInvalid,
		Code:       "TOKEN_INVALID",
		Message:    "invalid token",
		MessageKey: "errors.token_invalid",
		StatusCode: http.StatusUnauthorized,
	}
}

// Is checks if the error matches a target error
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As attempts to convert an error to a specific type
func As(err error, target any) bool {
	return errors.As(err, target)
}

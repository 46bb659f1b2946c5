// Package errors provides application-level error types and utilities.
// It classifies digest pipeline failures so the CLI can tell recoverable
// per-section problems apart from run-level fatal ones.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeConfig      ErrorType = "config_error"
	ErrorTypeFetch       ErrorType = "fetch_error"
	ErrorTypeRateLimited ErrorType = "rate_limited"
	ErrorTypeTranslation ErrorType = "translation_error"
	ErrorTypeRender      ErrorType = "render_error"
	ErrorTypeDelivery    ErrorType = "delivery_error"
	ErrorTypeInternal    ErrorType = "internal_error"
)

var (
	// ErrRateLimitExhausted is returned when a provider kept answering 429
	// until the retry budget ran out.
	ErrRateLimitExhausted = errors.New("rate limit retries exhausted")
	// ErrTranslationMismatch signals a broken positional contract between a
	// translation batch and its result.
	ErrTranslationMismatch = errors.New("translation result count does not match request")
	// ErrNoStories is returned when no section produced any story.
	ErrNoStories = errors.New("no stories fetched")
)

// AppError represents an application error with additional context
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Err     error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Details != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Details)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newAppError(t ErrorType, message string, err error, details []string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:    t,
		Message: message,
		Details: detail,
		Err:     err,
	}
}

// NewConfigError creates a configuration or credential error
func NewConfigError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeConfig, message, nil, details)
}

// NewFetchError wraps a section fetch failure
func NewFetchError(message string, err error, details ...string) *AppError {
	return newAppError(ErrorTypeFetch, message, err, details)
}

// NewRateLimitedError wraps an exhausted retry budget
func NewRateLimitedError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeRateLimited, message, ErrRateLimitExhausted, details)
}

// NewTranslationError wraps a translation failure
func NewTranslationError(message string, err error, details ...string) *AppError {
	return newAppError(ErrorTypeTranslation, message, err, details)
}

// NewRenderError wraps a rendering failure
func NewRenderError(message string, err error, details ...string) *AppError {
	return newAppError(ErrorTypeRender, message, err, details)
}

// NewDeliveryError wraps a delivery failure
func NewDeliveryError(message string, err error, details ...string) *AppError {
	return newAppError(ErrorTypeDelivery, message, err, details)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInternal, message, nil, details)
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType reports whether err carries an AppError of the given type
func IsType(err error, t ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == t
}

// IsConfigError checks if the error is a configuration error
func IsConfigError(err error) bool {
	return IsType(err, ErrorTypeConfig)
}

// IsTranslationError checks if the error is a translation error
func IsTranslationError(err error) bool {
	return IsType(err, ErrorTypeTranslation)
}

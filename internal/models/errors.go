package models

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes carried by AppError.
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeNotFound       = "NOT_FOUND"
	CodeConflict       = "CONFLICT"
	CodeNetwork        = "NETWORK_ERROR"
	CodeAPI            = "API_ERROR"
	CodeNotImplemented = "NOT_IMPLEMENTED"
	CodeInternal       = "INTERNAL_ERROR"
)

var (
	// ErrUnauthenticated is returned by operations that need a session when none exists.
	ErrUnauthenticated = errors.New("no authenticated session")
	// ErrVoteInFlight is returned when a poll card already has a vote request pending.
	ErrVoteInFlight = errors.New("a vote is already in progress for this poll")
	// ErrAlreadySelected is returned when the option is already voted or pending.
	ErrAlreadySelected = errors.New("option already selected")
)

// ErrorResponse is the JSON error body used by the remote API.
type ErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	// Status is the HTTP status that produced the error, 0 when none.
	Status int
	// Remote is the message the server put in the error body, if any.
	Remote string
	Err    error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
		Status:  http.StatusNotFound,
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
		Status:  http.StatusUnauthorized,
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
		Status:  http.StatusConflict,
	}
}

func NewNetworkError(err error) *AppError {
	return &AppError{
		Code:    CodeNetwork,
		Message: "request failed",
		Err:     err,
	}
}

func NewNotImplementedError(operation string) *AppError {
	return &AppError{
		Code:    CodeNotImplemented,
		Message: operation + " is not available yet",
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal error",
		Err:     err,
	}
}

// NewAPIError maps an HTTP status and server message onto an AppError.
func NewAPIError(status int, message string) *AppError {
	code := CodeAPI
	switch {
	case status == http.StatusConflict:
		code = CodeConflict
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		code = CodeUnauthorized
	case status == http.StatusNotFound:
		code = CodeNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		code = CodeValidation
	}
	display := message
	if display == "" {
		display = http.StatusText(status)
	}
	return &AppError{Code: code, Message: display, Status: status, Remote: message}
}

// CodeOf returns the AppError code in err's chain, or "" when there is none.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// ServerMessage returns the server-provided message of an API error, or "".
func ServerMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Remote
	}
	return ""
}

func IsConflict(err error) bool     { return CodeOf(err) == CodeConflict }
func IsValidation(err error) bool   { return CodeOf(err) == CodeValidation }
func IsUnauthorized(err error) bool { return CodeOf(err) == CodeUnauthorized }

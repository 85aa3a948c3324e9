package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	// Validation errors
	ErrCodeInvalidInput = "INVALID_INPUT"

	// Resource errors
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodePreconditionFailed = "PRECONDITION_FAILED"
	ErrCodeConflict           = "CONFLICT"

	// Service errors
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// Kind is the coarse classification a caller uses to decide whether to retry.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindPrecondition Kind = "precondition"
	KindConflict     Kind = "conflict"
	KindServer       Kind = "server"
)

var codeKinds = map[string]Kind{
	ErrCodeInvalidInput:       KindValidation,
	ErrCodeNotFound:           KindNotFound,
	ErrCodePreconditionFailed: KindPrecondition,
	ErrCodeConflict:           KindConflict,
	ErrCodeInternalError:      KindServer,
	ErrCodeServiceUnavailable: KindServer,
}

var codeStatuses = map[string]int{
	ErrCodeInvalidInput:       http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodePreconditionFailed: http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeInternalError:      http.StatusInternalServerError,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
}

// APIError represents a standardized API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Kind returns the classification of the error code
func (e *APIError) Kind() Kind {
	if kind, ok := codeKinds[e.Code]; ok {
		return kind
	}
	return KindServer
}

// StatusCode returns the HTTP status for the error code
func (e *APIError) StatusCode() int {
	if status, ok := codeStatuses[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// Validation creates a client-fault error for malformed or missing input
func Validation(message string) *APIError {
	return NewAPIError(ErrCodeInvalidInput, message)
}

// NotFoundError creates an error for an addressed record that does not exist
func NotFoundError(message string) *APIError {
	return NewAPIError(ErrCodeNotFound, message)
}

// Precondition creates an error for referenced data that does not satisfy a required state
func Precondition(message string) *APIError {
	return NewAPIError(ErrCodePreconditionFailed, message)
}

// ConflictError creates an error for state that depends on a concurrent owner
func ConflictError(message string) *APIError {
	return NewAPIError(ErrCodeConflict, message)
}

// KindOf classifies any error. Errors that are not APIErrors are server faults.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind()
	}
	return KindServer
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.JSON(statusCode, err)
}

// Respond sends the response matching err. Unclassified errors become a
// generic 500 so storage details never reach the client.
func Respond(c *gin.Context, err error) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		InternalError(c, "")
		return
	}

	switch apiErr.Code {
	case ErrCodeInvalidInput:
		BadRequest(c, apiErr.Message)
	case ErrCodeNotFound:
		NotFound(c, apiErr.Message)
	case ErrCodeConflict:
		Conflict(c, apiErr.Message)
	case ErrCodeServiceUnavailable:
		ServiceUnavailable(c, apiErr.Message)
	default:
		RespondWithError(c, apiErr.StatusCode(), apiErr)
	}
}

// Helper functions for common error responses

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeNotFound, message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidInput, message))
}

// Conflict sends a 409 response
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "Resource conflict"
	}
	RespondWithError(c, http.StatusConflict, NewAPIError(ErrCodeConflict, message))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *gin.Context, message string) {
	if message == "" {
		message = "Service temporarily unavailable"
	}
	RespondWithError(c, http.StatusServiceUnavailable, NewAPIError(ErrCodeServiceUnavailable, message))
}

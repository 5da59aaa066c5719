package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// ResultError is the value of "result" on every failed response
const ResultError = "error"

// APIError represents a standardized API error response
type APIError struct {
	Result     string `json:"result"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, code, message string) *APIError {
	return &APIError{
		Result:     ResultError,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// RespondWithError sends an error response and stops the handler chain
func RespondWithError(c *gin.Context, err *APIError) {
	c.AbortWithStatusJSON(err.StatusCode, err)
}

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication credentials were not provided."
	}
	RespondWithError(c, NewAPIError(http.StatusUnauthorized, ErrCodeUnauthorized, message))
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "You do not have permission to perform this action."
	}
	RespondWithError(c, NewAPIError(http.StatusForbidden, ErrCodeForbidden, message))
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Not found."
	}
	RespondWithError(c, NewAPIError(http.StatusNotFound, ErrCodeNotFound, message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request."
	}
	RespondWithError(c, NewAPIError(http.StatusBadRequest, ErrCodeInvalidInput, message))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error."
	}
	RespondWithError(c, NewAPIError(http.StatusInternalServerError, ErrCodeInternalError, message))
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *gin.Context, message string) {
	if message == "" {
		message = "Service temporarily unavailable."
	}
	RespondWithError(c, NewAPIError(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, message))
}

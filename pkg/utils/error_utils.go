package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is the standardized error response. Only Message reaches the
// response body, as {"error": Message}.
type APIError struct {
	StatusCode int
	Message    string
}

// NewAPIError creates a new APIError instance
func NewAPIError(statusCode int, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// RespondWithError sends a standardized JSON error response
func RespondWithError(c *gin.Context, err *APIError) {
	c.AbortWithStatusJSON(err.StatusCode, gin.H{"error": err.Message})
}

// RespondValidationFailed is a helper to return a standard validation error.
func RespondValidationFailed(c *gin.Context, message string) {
	RespondWithError(c, NewAPIError(http.StatusBadRequest, message))
}

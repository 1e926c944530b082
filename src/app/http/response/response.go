// Package response defines the JSON response envelopes served to clients that
// ask for application/json.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jokeshare/src/core/domain"
)

// Error represents an error response.
type Error struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	// Code is a machine-readable error code (e.g., "NOT_FOUND", "FORBIDDEN")
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// RequestID is the request ID for debugging
	RequestID string `json:"request_id,omitempty"`
}

// WantsJSON reports whether the client prefers JSON over HTML.
func WantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}

func errorJSON(c *gin.Context, status int, code, message, requestID string) {
	c.JSON(status, Error{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			RequestID: requestID,
		},
	})
}

// BadRequest sends a 400 response.
func BadRequest(c *gin.Context, message, requestID string) {
	errorJSON(c, http.StatusBadRequest, "BAD_REQUEST", message, requestID)
}

// NotFound sends a 404 response.
func NotFound(c *gin.Context, message, requestID string) {
	errorJSON(c, http.StatusNotFound, "NOT_FOUND", message, requestID)
}

// Conflict sends a 409 response.
func Conflict(c *gin.Context, message, requestID string) {
	errorJSON(c, http.StatusConflict, "CONFLICT", message, requestID)
}

// Forbidden sends a 403 response.
func Forbidden(c *gin.Context, message, requestID string) {
	errorJSON(c, http.StatusForbidden, "FORBIDDEN", message, requestID)
}

// Unauthorized sends a 401 response.
func Unauthorized(c *gin.Context, message, requestID string) {
	errorJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", message, requestID)
}

// InternalError sends a 500 response without internal details.
func InternalError(c *gin.Context, requestID string) {
	errorJSON(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", requestID)
}

// StatusOf maps a domain error to its HTTP status code.
func StatusOf(err error) int {
	switch {
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case domain.IsValidationError(err):
		return http.StatusBadRequest
	case domain.IsConflict(err):
		return http.StatusConflict
	case domain.IsForbidden(err):
		return http.StatusForbidden
	case domain.IsUnauthorized(err):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// FromDomainError converts a domain error to the matching JSON error response.
func FromDomainError(c *gin.Context, err error, requestID string) {
	msg := domain.Message(err)
	switch StatusOf(err) {
	case http.StatusNotFound:
		NotFound(c, msg, requestID)
	case http.StatusBadRequest:
		BadRequest(c, msg, requestID)
	case http.StatusConflict:
		Conflict(c, msg, requestID)
	case http.StatusForbidden:
		Forbidden(c, msg, requestID)
	case http.StatusUnauthorized:
		Unauthorized(c, msg, requestID)
	default:
		InternalError(c, requestID)
	}
}

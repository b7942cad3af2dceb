package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses.
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ValidationError is a caller-correctable input problem: malformed times or
// dates, start >= end, out-of-range durations.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError reports a clash with existing state: overlapping rule, slot
// already taken, duplicate override, acting on an already-resolved request.
// Resource names what the caller collided with.
type ConflictError struct {
	Resource string
	Message  string
}

func (e *ConflictError) Error() string {
	if e.Resource == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Resource, e.Message)
}

// Conflictf builds a ConflictError for the named resource.
func Conflictf(resource, format string, args ...any) error {
	return &ConflictError{Resource: resource, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError covers unknown ids and ids that exist but are not in the
// state the operation requires.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// NotFound builds a NotFoundError for the named resource.
func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

// AuthorizationError means the caller is authenticated but lacks the role or
// ownership the operation requires.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

// Forbidden builds an AuthorizationError.
func Forbidden(message string) error {
	return &AuthorizationError{Message: message}
}

// ExpiredError is raised when a time-boxed action is attempted past its
// deadline. The service self-heals (forces the EXPIRED state, releases the
// lock) before returning it, so a retry converges to the same outcome.
type ExpiredError struct {
	Message string
}

func (e *ExpiredError) Error() string { return e.Message }

// Expired builds an ExpiredError.
func Expired(message string) error {
	return &ExpiredError{Message: message}
}

// RespondError translates a service error into the matching HTTP response.
// Anything outside the taxonomy is logged and reported as a 500.
func RespondError(c *gin.Context, err error) {
	var (
		validationErr *ValidationError
		conflictErr   *ConflictError
		notFoundErr   *NotFoundError
		authErr       *AuthorizationError
		expiredErr    *ExpiredError
	)
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: validationErr.Message})
	case errors.As(err, &expiredErr):
		c.JSON(http.StatusConflict, ErrorResponse{Message: expiredErr.Message, Details: "expired"})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, ErrorResponse{Message: conflictErr.Message, Details: conflictErr.Resource})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: notFoundErr.Error()})
	case errors.As(err, &authErr):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: authErr.Message})
	default:
		GetLogger().Error("unhandled service error", zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal Server Error",
			Details: "An unexpected error occurred. Please try again later.",
		})
	}
}

// ErrorHandler is a middleware that catches panics and returns structured errors.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err))
				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

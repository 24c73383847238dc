// Package provider implements AI service adapters for embedding and text
// generation against OpenAI-compatible endpoints.
package provider

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ErrModelsExhausted indicates every model in the generation priority
// list failed with a fallback-eligible condition.
var ErrModelsExhausted = errors.New("all generation models exhausted")

// Error wraps a provider failure with the operation and HTTP status.
type Error struct {
	operation  string
	statusCode int
	message    string
	err        error
}

// NewError creates a provider Error.
func NewError(operation string, statusCode int, message string, err error) *Error {
	return &Error{operation: operation, statusCode: statusCode, message: message, err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.statusCode > 0 {
		return fmt.Sprintf("provider %s failed (status %d): %s", e.operation, e.statusCode, e.message)
	}
	return fmt.Sprintf("provider %s failed: %s", e.operation, e.message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.err }

// StatusCode returns the HTTP status code, 0 when unknown.
func (e *Error) StatusCode() int { return e.statusCode }

// Operation returns the failed operation name.
func (e *Error) Operation() string { return e.operation }

// IsRateLimitClass reports whether the error is a quota or rate-limit
// condition worth retrying after a pause. Auth failures and malformed
// requests fail fast.
func IsRateLimitClass(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "429")
}

// isFallbackEligible reports whether a generation failure should move on to
// the next model in the priority list: quota/rate conditions and unknown or
// retired model identifiers. Other failures abort the fallback chain.
func isFallbackEligible(err error) bool {
	if IsRateLimitClass(err) {
		return true
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusNotFound {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "model_not_found") || strings.Contains(msg, "does not exist") || strings.Contains(msg, "limit")
}

func wrapError(operation string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return NewError(operation, apiErr.HTTPStatusCode, apiErr.Message, err)
	}
	return NewError(operation, 0, err.Error(), err)
}

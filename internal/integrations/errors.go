// Package integrations holds the shared error taxonomy and HTTP plumbing for
// every third-party client. The clients themselves live in sub-packages.
package integrations

import (
	"errors"
	"fmt"
	"net/http"
)

// Category is the normalized failure taxonomy for external calls.
type Category string

const (
	CategoryAuthentication Category = "authentication"
	CategoryNotFound       Category = "not_found"
	CategoryValidation     Category = "validation"
	CategoryRateLimited    Category = "rate_limited"
	CategoryTimeout        Category = "timeout"
	CategoryUnavailable    Category = "unavailable"
	CategoryBadData        Category = "bad_data"
	CategoryInternal       Category = "internal"
)

// Error wraps an integration failure with its category.
type Error struct {
	Category    Category
	Integration string
	Message     string
	StatusCode  int
	Underlying  error
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s [%s]: %s: %v", e.Integration, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Integration, e.Category, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

func NewError(category Category, integration, message string, underlying error) *Error {
	return &Error{
		Category:    category,
		Integration: integration,
		Message:     message,
		Underlying:  underlying,
	}
}

// GetCategory extracts the category, defaulting to internal.
func GetCategory(err error) Category {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Category
	}
	return CategoryInternal
}

// AsError unwraps err into an *Error.
func AsError(err error) (*Error, bool) {
	var ie *Error
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// CategoryForStatus maps an upstream HTTP status to a category.
func CategoryForStatus(status int) Category {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return CategoryAuthentication
	case status == http.StatusNotFound:
		return CategoryNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return CategoryValidation
	case status == http.StatusTooManyRequests:
		return CategoryRateLimited
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return CategoryTimeout
	case status >= 500:
		return CategoryUnavailable
	default:
		return CategoryInternal
	}
}

package models

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotFound represents a not found error
type ErrNotFound struct {
	Message string
}

func (e *ErrNotFound) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "not found"
}

// ErrInvalidOperation represents a business-rule violation, such as checking
// out an empty cart or exceeding the purchase cap.
type ErrInvalidOperation struct {
	Message string
}

func (e *ErrInvalidOperation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "invalid operation"
}

func NotFoundf(format string, args ...interface{}) error {
	return &ErrNotFound{Message: fmt.Sprintf(format, args...)}
}

func InvalidOperationf(format string, args ...interface{}) error {
	return &ErrInvalidOperation{Message: fmt.Sprintf(format, args...)}
}

func IsNotFound(err error) bool {
	var target *ErrNotFound
	return errors.As(err, &target)
}

func IsInvalidOperation(err error) bool {
	var target *ErrInvalidOperation
	return errors.As(err, &target)
}

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	ErrorMessage string `json:"errorMessage"`
}

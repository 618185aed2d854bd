// Package server provides the HTTP API for the interview-prep service.
package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ErrNotFound indicates a requested resource does not exist.
type ErrNotFound struct {
	Resource string
	ID       uuid.UUID
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrInvalidState indicates an operation is not allowed in the
// resource's current lifecycle state.
type ErrInvalidState struct {
	Resource string
	State    string
}

func (e *ErrInvalidState) Error() string {
	return fmt.Sprintf("%s is in state %q, operation not allowed", e.Resource, e.State)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrNotFound:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	case *ErrInvalidState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

package entity

import (
	"errors"
	"fmt"
	"strings"
)

var ErrLeadNotFound = errors.New("lead not found")

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports every offending field of a create or update.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// InvalidQueryError is a malformed list parameter (unknown enum, bad number, bad sort).
type InvalidQueryError struct {
	Param   string
	Message string
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("invalid query parameter %s: %s", e.Param, e.Message)
}

func NewInvalidQuery(param, format string, args ...any) *InvalidQueryError {
	return &InvalidQueryError{Param: param, Message: fmt.Sprintf(format, args...)}
}

// StoreUnavailableError means the persistence backend could not be reached.
type StoreUnavailableError struct {
	Store string
	Err   error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Store, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }

func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsInvalidQueryError(err error) bool {
	var target *InvalidQueryError
	return errors.As(err, &target)
}

func IsStoreUnavailable(err error) bool {
	var target *StoreUnavailableError
	return errors.As(err, &target)
}

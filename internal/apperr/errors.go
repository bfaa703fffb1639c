// Package apperr defines the error taxonomy shared by all engine services.
// Stores translate driver errors (sql.ErrNoRows, unique violations) into
// these types at the boundary; the API layer maps them onto status codes.
package apperr

import (
	"errors"
	"fmt"
)

// FieldError points at a specific invalid input field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// NotFoundError: a referenced entity does not exist. Never retried.
type NotFoundError struct {
	Entity string
	ID     int64
}

func NewNotFound(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// AlreadyExistsError: duplicate edge/code creation attempt.
type AlreadyExistsError struct {
	Entity string
	Detail string
}

func NewAlreadyExists(entity, detail string) error {
	return &AlreadyExistsError{Entity: entity, Detail: detail}
}

func (e *AlreadyExistsError) Error() string {
	if e.Detail == "" {
		return e.Entity + " already exists"
	}
	return e.Entity + " already exists: " + e.Detail
}

// ValidationError: malformed input (out-of-range weight, bad method name,
// missing rejection reason).
type ValidationError struct {
	Msg    string
	Fields []FieldError
}

func NewValidation(msg string, flds ...FieldError) error {
	return &ValidationError{Msg: msg, Fields: flds}
}

func (e *ValidationError) Error() string { return e.Msg }

// RuleViolationError: well-formed but semantically illegal request
// (invalid workflow transition, marks above max, threshold order).
type RuleViolationError struct {
	Msg string
}

func NewRuleViolation(format string, args ...interface{}) error {
	return &RuleViolationError{Msg: fmt.Sprintf(format, args...)}
}

func (e *RuleViolationError) Error() string { return e.Msg }

// ConflictError: optimistic-concurrency failure; the row changed between
// read and write. Callers may retry the whole operation.
type ConflictError struct {
	Msg string
}

func NewConflict(format string, args ...interface{}) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

func (e *ConflictError) Error() string { return e.Msg }

func IsNotFound(err error) bool {
	var t *NotFoundError
	return errors.As(err, &t)
}

func IsAlreadyExists(err error) bool {
	var t *AlreadyExistsError
	return errors.As(err, &t)
}

func IsValidation(err error) bool {
	var t *ValidationError
	return errors.As(err, &t)
}

func IsRuleViolation(err error) bool {
	var t *RuleViolationError
	return errors.As(err, &t)
}

func IsConflict(err error) bool {
	var t *ConflictError
	return errors.As(err, &t)
}

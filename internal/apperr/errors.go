// Package apperr holds the error types shared by validation, the stores and
// the HTTP layer.
package apperr

import (
	"fmt"
	"strings"
)

// FieldError describes one rejected input field.
// swagger:model FieldError
type FieldError struct {
	Field   string `json:"field"   example:"email"`
	Rule    string `json:"rule"    example:"email"`
	Message string `json:"message" example:"email must be a valid email address"`
}

// ValidationError is returned when a payload fails its constraints.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Invalid builds a ValidationError for a single field.
func Invalid(field, rule, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Rule: rule, Message: message}}}
}

// NotFoundError is returned when a referenced entity does not exist.
type NotFoundError struct {
	Entity string
	ID     int64
	Msg    string
}

func (e *NotFoundError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// NotFound builds a NotFoundError with the message shown to clients.
func NotFound(entity string, id int64, msg string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id, Msg: msg}
}

// ConflictError is returned when a write violates a uniqueness constraint.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

// Conflict builds a ConflictError.
func Conflict(reason string) *ConflictError { return &ConflictError{Reason: reason} }

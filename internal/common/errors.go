// Package common defines shared constants and sentinel errors used across
// the gateway and service layers of GophAccount. Callers should use errors.Is
// to match these values.
package common

import (
	"errors"
	"sort"
	"strings"
)

// ErrValidation is matched by every ValidationError, local or server-sent.
var ErrValidation = errors.New("validation failed")

// ValidationError carries field-level messages. Messages from the server are
// kept verbatim; Detail holds a non field-specific message, if any.
type ValidationError struct {
	Fields map[string]string
	Detail string
	// Status is the HTTP status of a server-sent error, 0 when raised locally.
	Status int
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		if e.Detail == "" {
			return ErrValidation.Error()
		}
		return e.Detail
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Field returns the message recorded for name, or "".
func (e *ValidationError) Field(name string) string {
	return e.Fields[name]
}

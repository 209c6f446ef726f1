package domain

import (
	"errors"  // Error matching
	"fmt"     // Error formatting
	"sort"    // Stable ordering
	"strings" // String helpers
)

// Sentinel errors shared by stores and handlers.
var (
	ErrNotFound           = errors.New("not found")           // Missing record or document
	ErrConflict           = errors.New("conflict")            // Unique key already taken
	ErrValidation         = errors.New("validation error")    // Bad user input
	ErrDataUnavailable    = errors.New("data unavailable")    // No dataset uploaded yet
	ErrInvalidCredentials = errors.New("invalid credentials") // Wrong username or password
)

// ValidationError maps form fields to messages.
type ValidationError struct {
	Fields map[string]string // Field name to message
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Add records a message for field, keeping the first one seen.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

// OrNil returns nil when no field failed.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Package errors provides structured error types for QuickSizer.
// Errors carry a stable code, a category, context, and remediation
// suggestions, and interoperate with errors.Is/errors.As.
package errors

import (
	"fmt"
	"strings"
)

// Category classifies errors for consistent handling and display.
type Category string

const (
	CategoryConfig     Category = "config"     // Configuration loading/parsing errors
	CategoryExport     Category = "export"     // Report/PDF/CSV generation errors
	CategoryWorkbook   Category = "workbook"   // Workbook import errors
	CategorySession    Category = "session"    // Wizard session errors
	CategoryValidation Category = "validation" // Input validation errors
	CategoryServer     Category = "server"     // HTTP server errors
	CategoryIO         Category = "io"         // File/IO errors
	CategoryInternal   Category = "internal"   // Internal/unexpected errors
)

// SizerError is a structured error with context and suggestions.
// It implements the error interface and supports error wrapping.
type SizerError struct {
	// Code is a unique identifier for this error type (e.g., "CONFIG_NOT_FOUND")
	Code string

	// Category classifies this error for consistent handling
	Category Category

	// Message is the primary error message describing what went wrong
	Message string

	// Context provides additional key-value details about the error
	Context map[string]string

	// Cause is the underlying error that triggered this error (for wrapping)
	Cause error

	// Suggestions are actionable remediation steps for the user
	Suggestions []string
}

// Error implements the error interface.
func (e *SizerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain inspection.
func (e *SizerError) Unwrap() error {
	return e.Cause
}

// Is reports whether e matches target for errors.Is() checks.
// Two SizerErrors match if they have the same Code.
func (e *SizerError) Is(target error) bool {
	if t, ok := target.(*SizerError); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a new SizerError with the given code, category, and message.
func New(code string, category Category, message string) *SizerError {
	return &SizerError{
		Code:     code,
		Category: category,
		Message:  message,
		Context:  make(map[string]string),
	}
}

// Wrap wraps an existing error with a SizerError.
func Wrap(err error, code string, category Category, message string) *SizerError {
	return New(code, category, message).WithCause(err)
}

// WithContext adds a context key-value pair and returns the error for chaining.
func (e *SizerError) WithContext(key, value string) *SizerError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// WithCause wraps an underlying error and returns the error for chaining.
func (e *SizerError) WithCause(cause error) *SizerError {
	e.Cause = cause
	return e
}

// WithSuggestion adds a remediation suggestion and returns the error for chaining.
func (e *SizerError) WithSuggestion(suggestion string) *SizerError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// ContextString returns a formatted string of all context entries.
func (e *SizerError) ContextString() string {
	if len(e.Context) == 0 {
		return ""
	}
	var parts []string
	for k, v := range e.Context {
		parts = append(parts, fmt.Sprintf("%s=%q", k, v))
	}
	return strings.Join(parts, ", ")
}

// AsSizerError attempts to convert an error to a SizerError.
func AsSizerError(err error) (*SizerError, bool) {
	if err == nil {
		return nil, false
	}
	if se, ok := err.(*SizerError); ok {
		return se, true
	}
	return nil, false
}

// IsCategory checks if an error is a SizerError with the given category.
func IsCategory(err error, category Category) bool {
	if se, ok := AsSizerError(err); ok {
		return se.Category == category
	}
	return false
}

// IsCode checks if an error is a SizerError with the given code.
func IsCode(err error, code string) bool {
	if se, ok := AsSizerError(err); ok {
		return se.Code == code
	}
	return false
}

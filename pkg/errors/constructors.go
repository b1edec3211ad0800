// Package errors provides smart error constructors that auto-attach suggestions.
package errors

import "fmt"

// -----------------------------------------------------------------------------
// Smart Constructors with Auto-Attached Suggestions
// -----------------------------------------------------------------------------
// These constructors create SizerErrors and automatically attach appropriate
// suggestions from the registry based on the error code.

// Config creates a configuration error with auto-attached suggestions.
// The error code should be one of the ErrConfig* constants.
func Config(code, message string) *SizerError {
	return AttachSuggestions(New(code, CategoryConfig, message))
}

// Configf creates a configuration error with a formatted message.
func Configf(code, format string, args ...interface{}) *SizerError {
	return Config(code, fmt.Sprintf(format, args...))
}

// ConfigWrap wraps an error as a configuration error.
func ConfigWrap(cause error, code, message string) *SizerError {
	return AttachSuggestions(Wrap(cause, code, CategoryConfig, message))
}

// Export creates a report generation error.
// The error code should be one of the ErrExport* constants.
func Export(code, message string) *SizerError {
	return AttachSuggestions(New(code, CategoryExport, message))
}

// Exportf creates a report generation error with a formatted message.
func Exportf(code, format string, args ...interface{}) *SizerError {
	return Export(code, fmt.Sprintf(format, args...))
}

// ExportWrap wraps an error as a report generation error.
func ExportWrap(cause error, code, message string) *SizerError {
	return AttachSuggestions(Wrap(cause, code, CategoryExport, message))
}

// Workbook creates a workbook import error.
// The error code should be one of the ErrWorkbook* constants.
func Workbook(code, message string) *SizerError {
	return AttachSuggestions(New(code, CategoryWorkbook, message))
}

// Workbookf creates a workbook import error with a formatted message.
func Workbookf(code, format string, args ...interface{}) *SizerError {
	return Workbook(code, fmt.Sprintf(format, args...))
}

// WorkbookWrap wraps an error as a workbook import error.
func WorkbookWrap(cause error, code, message string) *SizerError {
	return AttachSuggestions(Wrap(cause, code, CategoryWorkbook, message))
}

// Session creates a wizard session error.
// The error code should be one of the ErrSession* constants.
func Session(code, message string) *SizerError {
	return AttachSuggestions(New(code, CategorySession, message))
}

// Sessionf creates a wizard session error with a formatted message.
func Sessionf(code, format string, args ...interface{}) *SizerError {
	return Session(code, fmt.Sprintf(format, args...))
}

// Validation creates an input validation error.
func Validation(message string) *SizerError {
	return New(ErrValidationFailed, CategoryValidation, message)
}

// Validationf creates an input validation error with a formatted message.
func Validationf(format string, args ...interface{}) *SizerError {
	return Validation(fmt.Sprintf(format, args...))
}

// ServerWrap wraps an error as a server error.
func ServerWrap(cause error, code, message string) *SizerError {
	return AttachSuggestions(Wrap(cause, code, CategoryServer, message))
}

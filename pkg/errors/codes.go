// Package errors provides error code constants for QuickSizer.
// Error codes are organized by category for consistent handling and lookup.
package errors

// -----------------------------------------------------------------------------
// Configuration Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = "CONFIG_NOT_FOUND"

	// ErrConfigParseFailed indicates the configuration file could not be parsed.
	// Usually a YAML syntax error or invalid structure.
	ErrConfigParseFailed = "CONFIG_PARSE_FAILED"

	// ErrConfigInvalid indicates configuration values are invalid.
	ErrConfigInvalid = "CONFIG_INVALID"

	// ErrConfigInitFailed indicates config initialization failed.
	ErrConfigInitFailed = "CONFIG_INIT_FAILED"
)

// -----------------------------------------------------------------------------
// Export Error Codes
// -----------------------------------------------------------------------------
// Use these codes for report generation failures. Export errors are
// programming-defect signals, not bad-input signals: sparse input data is
// coerced, never rejected.

const (
	// ErrExportObjectMissing indicates an object id in the PDF graph was
	// never assigned a body during serialization. The export aborts rather
	// than emit a file that truncates at that object.
	ErrExportObjectMissing = "EXPORT_OBJECT_MISSING"

	// ErrExportWriteFailed indicates the generated bytes could not be
	// written to their destination.
	ErrExportWriteFailed = "EXPORT_WRITE_FAILED"
)

// -----------------------------------------------------------------------------
// Workbook Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrWorkbookOpenFailed indicates the workbook archive could not be opened.
	ErrWorkbookOpenFailed = "WORKBOOK_OPEN_FAILED"

	// ErrWorkbookParseFailed indicates a workbook part failed to parse.
	ErrWorkbookParseFailed = "WORKBOOK_PARSE_FAILED"

	// ErrWorkbookSheetMissing indicates an expected sheet is absent.
	ErrWorkbookSheetMissing = "WORKBOOK_SHEET_MISSING"
)

// -----------------------------------------------------------------------------
// Session Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrSessionNotFound indicates the wizard session id is unknown.
	ErrSessionNotFound = "SESSION_NOT_FOUND"

	// ErrSessionInvalidStep indicates a step transition that the wizard
	// state machine does not allow.
	ErrSessionInvalidStep = "SESSION_INVALID_STEP"

	// ErrSessionIncomplete indicates an export was requested before the
	// wizard collected the required inputs.
	ErrSessionIncomplete = "SESSION_INCOMPLETE"
)

// -----------------------------------------------------------------------------
// Validation and Server Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrValidationFailed indicates request input failed validation.
	ErrValidationFailed = "VALIDATION_FAILED"

	// ErrServerStartFailed indicates the HTTP server failed to start.
	ErrServerStartFailed = "SERVER_START_FAILED"
)

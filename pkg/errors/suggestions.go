// Package errors provides a suggestions registry for error remediation.
// Maps error codes to suggestions that help users fix issues.
package errors

// suggestionRegistry maps error codes to remediation suggestions shown when
// the error reaches the CLI or an API error payload.
var suggestionRegistry = map[string][]string{
	ErrConfigNotFound: {
		"Run 'quicksizer -init' to create a default config file",
		"Pass -config to point at an existing config file",
	},
	ErrConfigParseFailed: {
		"Check the YAML syntax of the config file",
	},
	ErrWorkbookOpenFailed: {
		"Check that the workbook path exists and is a valid .xlsx file",
	},
	ErrWorkbookSheetMissing: {
		"The workbook must contain a 'Scenario Template' sheet",
	},
	ErrSessionNotFound: {
		"Start a new wizard session via POST /api/sessions",
	},
	ErrSessionIncomplete: {
		"Complete the remaining wizard steps before exporting",
	},
}

// AttachSuggestions looks up registered suggestions for the error's code and
// appends them. Returns the error for chaining; errors with no registered
// suggestions pass through unchanged.
func AttachSuggestions(err *SizerError) *SizerError {
	if err == nil {
		return nil
	}
	for _, s := range suggestionRegistry[err.Code] {
		err = err.WithSuggestion(s)
	}
	return err
}

// SuggestionsFor returns the registered suggestions for a code.
func SuggestionsFor(code string) []string {
	return suggestionRegistry[code]
}

// Package errors provides the failure taxonomy of mtp-copy and actionable suggestions
// for displaying failures to the user.
//
// Failures are created with a Kind:
//
//	return errors.New(errors.KindNotFound, "the %s device was not found.", role)
//
// and tested with the standard library:
//
//	if stderrors.Is(err, errors.ErrAmbiguous) { ... }
//
// At display time an Enricher turns any error into an ActionableError with a category
// and suggestions:
//
//	enriched := errors.NewEnricher().Enrich(err, "")
//	fmt.Fprintln(os.Stderr, "Error:", enriched)
//	fmt.Fprintln(os.Stderr, errors.FormatSuggestions(enriched))
package errors

import "strings"

// Exported constants.
const (
	CategoryAmbiguous   ErrorCategory = "ambiguous"
	CategoryConnection  ErrorCategory = "connection"
	CategoryDeviceBusy  ErrorCategory = "device_busy"
	CategoryDiskSpace   ErrorCategory = "disk_space"
	CategoryForbidden   ErrorCategory = "forbidden"
	CategoryIO          ErrorCategory = "io"
	CategoryInvalidPath ErrorCategory = "invalid_path"
	CategoryNotFound    ErrorCategory = "not_found"
	CategoryPermission  ErrorCategory = "permission"
	CategoryUnknown     ErrorCategory = "unknown"
)

// ActionableError represents an error with actionable suggestions for the user.
type ActionableError interface {
	error
	OriginalError() string
	Category() ErrorCategory
	Suggestions() []string
	AffectedPath() string
}

// NewActionableError creates a new ActionableError with the given details.
func NewActionableError(
	originalError string,
	category ErrorCategory,
	suggestions []string,
	affectedPath string,
) ActionableError {
	return &actionableError{
		originalError: originalError,
		category:      category,
		suggestions:   suggestions,
		affectedPath:  affectedPath,
	}
}

// ErrorCategory represents the type of error that occurred.
type ErrorCategory string

// FormatSuggestions formats the suggestions from an ActionableError as a bulleted list.
// Returns empty string if the error is nil or has no suggestions.
func FormatSuggestions(err error) string {
	if err == nil {
		return ""
	}

	actionable, ok := err.(ActionableError)
	if !ok {
		return ""
	}

	suggestions := actionable.Suggestions()
	if len(suggestions) == 0 {
		return ""
	}

	var builder strings.Builder
	for i, suggestion := range suggestions {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString("  • ")
		builder.WriteString(suggestion)
	}

	return builder.String()
}

// actionableError is the concrete implementation of ActionableError.
type actionableError struct {
	originalError string
	category      ErrorCategory
	suggestions   []string
	affectedPath  string
	cause         error
}

// AffectedPath returns the path affected by this error.
func (e *actionableError) AffectedPath() string {
	return e.affectedPath
}

// Category returns the error category.
func (e *actionableError) Category() ErrorCategory {
	return e.category
}

// Error implements the error interface.
func (e *actionableError) Error() string {
	return e.originalError
}

// OriginalError returns the original error message.
func (e *actionableError) OriginalError() string {
	return e.originalError
}

// Suggestions returns the list of actionable suggestions.
func (e *actionableError) Suggestions() []string {
	return e.suggestions
}

// Unwrap returns the enriched error, if any.
func (e *actionableError) Unwrap() error {
	return e.cause
}

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arthur-debert/simpleshop/catalog"
	"github.com/arthur-debert/simpleshop/shop"
)

// CLIError represents a user-friendly CLI error with context and suggestions
type CLIError struct {
	Operation   string   // The operation that failed (e.g., "add category")
	Cause       string   // The underlying cause (e.g., "category not found")
	Details     string   // Additional technical details
	Suggestions []string // Helpful suggestions for the user
	Underlying  error    // Original error for debugging
}

// Error implements the error interface
func (e *CLIError) Error() string {
	var msg strings.Builder

	if e.Operation != "" {
		msg.WriteString(fmt.Sprintf("Failed to %s", e.Operation))
	} else {
		msg.WriteString("Operation failed")
	}

	if e.Cause != "" {
		msg.WriteString(fmt.Sprintf(": %s", e.Cause))
	}

	if e.Details != "" {
		msg.WriteString(fmt.Sprintf(" (%s)", e.Details))
	}

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			msg.WriteString(fmt.Sprintf("\n  %d. %s", i+1, suggestion))
		}
	}

	return msg.String()
}

// Unwrap returns the underlying error for error chain compatibility
func (e *CLIError) Unwrap() error {
	return e.Underlying
}

// NewValidationError creates an error for a rejected flag or argument
func NewValidationError(operation, field, value string, suggestions ...string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("invalid %s: %q", field, value),
		Suggestions: suggestions,
	}
}

// NewNotFoundError creates an error for missing catalog entries
func NewNotFoundError(operation, resource, id string, suggestions ...string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("%s %q not found", resource, id),
		Suggestions: suggestions,
	}
}

// NewConflictError creates an error for an add that would overwrite
func NewConflictError(operation, resource, id string, suggestions ...string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("%s %q already exists", resource, id),
		Suggestions: suggestions,
	}
}

// NewShopError creates an error for a failed load, build or save
func NewShopError(operation string, underlying error, suggestions ...string) *CLIError {
	cause := "shop operation failed"
	details := ""

	if underlying != nil {
		details = underlying.Error()

		var loadErr *shop.DocumentLoadError
		var consErr *catalog.ConstructionError
		switch {
		case errors.As(underlying, &loadErr):
			cause = "shop document could not be loaded"
			suggestions = append(suggestions, CommonSuggestions.CheckDocument, CommonSuggestions.RunValidate)
		case errors.As(underlying, &consErr):
			cause = fmt.Sprintf("invalid %s data", consErr.Kind)
		case errors.Is(underlying, shop.ErrCategoryNotFound), errors.Is(underlying, shop.ErrSubCategoryNotFound):
			cause = "container not found"
			suggestions = append(suggestions, CommonSuggestions.CheckID)
		case strings.Contains(strings.ToLower(details), "permission denied"):
			cause = "insufficient permissions to access the document"
			suggestions = append(suggestions, CommonSuggestions.CheckPerms)
		case strings.Contains(details, "failed to acquire lock"):
			cause = "document is locked by another process"
		}
	}

	return &CLIError{
		Operation:   operation,
		Cause:       cause,
		Details:     details,
		Suggestions: suggestions,
		Underlying:  underlying,
	}
}

// WrapError wraps an existing error with CLI-friendly context
func WrapError(operation string, err error, suggestions ...string) error {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		if cliErr.Operation == "" {
			cliErr.Operation = operation
		}
		return cliErr
	}

	return NewShopError(operation, err, suggestions...)
}

// CommonSuggestions are hints shared by several commands
var CommonSuggestions = struct {
	CheckDocument string
	CheckID       string
	CheckFlags    string
	CheckPerms    string
	RunValidate   string
	UseEdit       string
}{
	CheckDocument: "Verify --document points to a valid shop document",
	CheckID:       "Verify the id exists (try the 'list' command first)",
	CheckFlags:    "Check command line flags and their values",
	CheckPerms:    "Check file permissions and directory access",
	RunValidate:   "Run 'simpleshop validate' to see what is wrong",
	UseEdit:       "Use the 'edit' command to change an existing entry",
}

package errors

import (
	"errors"
	"fmt"
	"strings"
)

// UserError provides user-friendly error messages with suggestions
type UserError struct {
	Operation  string // The operation that failed (e.g., "vault.load")
	File       string // File path where error occurred
	Err        error  // Original error
	Suggestion string // Helpful suggestion for the user
	Code       string // Error code for programmatic handling
}

// Error implements the error interface
func (e UserError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Error: %s", e.Err)

	if e.Operation != "" {
		fmt.Fprintf(&buf, "\nOperation: %s", e.Operation)
	}

	if e.File != "" {
		fmt.Fprintf(&buf, "\nFile: %s", e.File)
	}

	if e.Suggestion != "" {
		fmt.Fprintf(&buf, "\n\nSuggestion: %s", e.Suggestion)
	}

	return buf.String()
}

// Unwrap returns the underlying error for error chain compatibility
func (e UserError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the error code for programmatic handling
func (e UserError) ErrorCode() string {
	return e.Code
}

// Common error codes
const (
	ErrCodeInvalidFile      = "INVALID_FILE"
	ErrCodeMissingField     = "MISSING_FIELD"
	ErrCodeInvalidValue     = "INVALID_VALUE"
	ErrCodeFileNotFound     = "FILE_NOT_FOUND"
	ErrCodePermissionDenied = "PERMISSION_DENIED"
	ErrCodeInvalidConfig    = "INVALID_CONFIG"
	ErrCodeInvalidSyntax    = "INVALID_SYNTAX"
	ErrCodeNoteNotFound     = "NOTE_NOT_FOUND"
	ErrCodeStore            = "STORE_ERROR"
	ErrCodeNoChallenge      = "NO_CHALLENGE"
)

// ErrorBuilder helps construct user-friendly errors with suggestions
type ErrorBuilder struct {
	operation  string
	file       string
	err        error
	suggestion string
	code       string
}

// NewErrorBuilder creates a new error builder
func NewErrorBuilder() *ErrorBuilder {
	return &ErrorBuilder{}
}

// WithOperation sets the operation context
func (b *ErrorBuilder) WithOperation(operation string) *ErrorBuilder {
	b.operation = operation
	return b
}

// WithFile sets the file context
func (b *ErrorBuilder) WithFile(file string) *ErrorBuilder {
	b.file = file
	return b
}

// WithError sets the underlying error
func (b *ErrorBuilder) WithError(err error) *ErrorBuilder {
	b.err = err
	return b
}

// WithSuggestion sets a helpful suggestion
func (b *ErrorBuilder) WithSuggestion(suggestion string) *ErrorBuilder {
	b.suggestion = suggestion
	return b
}

// WithCode sets the error code
func (b *ErrorBuilder) WithCode(code string) *ErrorBuilder {
	b.code = code
	return b
}

// Build creates the UserError
func (b *ErrorBuilder) Build() UserError {
	return UserError{
		Operation:  b.operation,
		File:       b.file,
		Err:        b.err,
		Suggestion: b.suggestion,
		Code:       b.code,
	}
}

// NewFileNotFoundError creates an error for missing files
func NewFileNotFoundError(file string, suggestion string) UserError {
	return NewErrorBuilder().
		WithFile(file).
		WithError(fmt.Errorf("file not found: %s", file)).
		WithCode(ErrCodeFileNotFound).
		WithSuggestion(suggestion).
		Build()
}

// NewVaultNotFoundError creates an error for a missing notes directory
func NewVaultNotFoundError(path string) UserError {
	return NewErrorBuilder().
		WithOperation("vault.load").
		WithFile(path).
		WithError(fmt.Errorf("notes directory not found: %s", path)).
		WithCode(ErrCodeFileNotFound).
		WithSuggestion("Pass --vault with the directory holding your markdown notes, or set vault.path in mindmeld.yaml.").
		Build()
}

// NewNoteNotFoundError creates an error for an unknown note id
func NewNoteNotFoundError(id string) UserError {
	return NewErrorBuilder().
		WithOperation("note lookup").
		WithError(fmt.Errorf("no note with id %q", id)).
		WithCode(ErrCodeNoteNotFound).
		WithSuggestion("Run 'mindmeld analyze --format json' to list note ids.").
		Build()
}

// NewMissingFieldError creates an error for missing required fields
func NewMissingFieldError(field string, file string) UserError {
	return NewErrorBuilder().
		WithOperation("field validation").
		WithFile(file).
		WithError(fmt.Errorf("required field '%s' is missing", field)).
		WithCode(ErrCodeMissingField).
		WithSuggestion(fmt.Sprintf("Add the field '%s' to the frontmatter of this note.", field)).
		Build()
}

// NewInvalidValueError creates an error for a field holding an unusable value
func NewInvalidValueError(field, details string, file string) UserError {
	return NewErrorBuilder().
		WithOperation("field validation").
		WithFile(file).
		WithError(fmt.Errorf("invalid value for '%s': %s", field, details)).
		WithCode(ErrCodeInvalidValue).
		WithSuggestion(fmt.Sprintf("Fix the value of '%s' and try again.", field)).
		Build()
}

// NewInvalidSyntaxError creates an error for syntax issues
func NewInvalidSyntaxError(file string, line int, details string) UserError {
	suggestion := "Check the YAML syntax in your frontmatter. Common issues include incorrect indentation, missing quotes around special characters, or malformed lists."

	err := fmt.Errorf("syntax error in file %s", file)
	if line > 0 {
		err = fmt.Errorf("syntax error in file %s at line %d: %s", file, line, details)
	}

	return NewErrorBuilder().
		WithOperation("file parsing").
		WithFile(file).
		WithError(err).
		WithCode(ErrCodeInvalidSyntax).
		WithSuggestion(suggestion).
		Build()
}

// NewConfigError creates an error for configuration issues
func NewConfigError(configPath string, details string) UserError {
	return NewErrorBuilder().
		WithOperation("configuration loading").
		WithFile(configPath).
		WithError(fmt.Errorf("configuration error: %s", details)).
		WithCode(ErrCodeInvalidConfig).
		WithSuggestion("Check mindmeld.yaml for syntax errors and unknown values. MINDMELD_* environment variables override file settings.").
		Build()
}

// NewStoreError creates an error for state database failures
func NewStoreError(operation, path string, err error) UserError {
	return NewErrorBuilder().
		WithOperation(operation).
		WithFile(path).
		WithError(err).
		WithCode(ErrCodeStore).
		WithSuggestion("Check that the state database is writable. Deleting it resets flashcards and mentor progress.").
		Build()
}

// NewNoChallengeError creates an error for completing a challenge when none is active
func NewNoChallengeError() UserError {
	return NewErrorBuilder().
		WithOperation("mentor.complete").
		WithError(fmt.Errorf("no active challenge")).
		WithCode(ErrCodeNoChallenge).
		WithSuggestion("Start one with 'mindmeld mentor challenge'.").
		Build()
}

// NewPermissionError creates an error for permission issues
func NewPermissionError(file string, operation string) UserError {
	suggestion := "Check that you have read/write permissions for this file and its parent directory."

	return NewErrorBuilder().
		WithOperation(operation).
		WithFile(file).
		WithError(fmt.Errorf("permission denied accessing file: %s", file)).
		WithCode(ErrCodePermissionDenied).
		WithSuggestion(suggestion).
		Build()
}

// ErrorHandler provides consistent error formatting
type ErrorHandler struct {
	verbose bool
	quiet   bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(verbose, quiet bool) *ErrorHandler {
	return &ErrorHandler{
		verbose: verbose,
		quiet:   quiet,
	}
}

// Handle processes an error and returns a formatted message
func (h *ErrorHandler) Handle(err error) string {
	if err == nil {
		return ""
	}

	var userErr UserError
	if errors.As(err, &userErr) {
		return h.formatUserError(userErr)
	}

	return h.formatRegularError(err)
}

func (h *ErrorHandler) formatUserError(err UserError) string {
	if h.quiet {
		return err.Err.Error()
	}

	var buf strings.Builder

	errorColor := "\033[31m"
	contextColor := "\033[33m"
	suggestionColor := "\033[36m"
	resetColor := "\033[0m"

	fmt.Fprintf(&buf, "%sError:%s %s\n", errorColor, resetColor, err.Err.Error())

	if err.Operation != "" {
		fmt.Fprintf(&buf, "%sOperation:%s %s\n", contextColor, resetColor, err.Operation)
	}
	if err.File != "" {
		fmt.Fprintf(&buf, "%sFile:%s %s\n", contextColor, resetColor, err.File)
	}

	if err.Suggestion != "" {
		fmt.Fprintf(&buf, "\n%sSuggestion:%s %s\n", suggestionColor, resetColor, err.Suggestion)
	}

	if h.verbose && err.Code != "" {
		fmt.Fprintf(&buf, "\nError Code: %s\n", err.Code)
	}

	return buf.String()
}

func (h *ErrorHandler) formatRegularError(err error) string {
	if h.quiet {
		return err.Error()
	}

	errMsg := err.Error()

	var suggestion string
	switch {
	case strings.Contains(errMsg, "no such file or directory"):
		suggestion = "Check that the file path is correct and the file exists."
	case strings.Contains(errMsg, "permission denied"):
		suggestion = "Check that you have the necessary permissions to access this file."
	case strings.Contains(errMsg, "database is locked"):
		suggestion = "Another mindmeld process is using the state database. Stop it or wait and retry."
	case strings.Contains(errMsg, "invalid character"), strings.Contains(errMsg, "yaml:"):
		suggestion = "Check for syntax errors in your YAML or JSON."
	}

	var buf strings.Builder
	fmt.Fprintf(&buf, "Error: %s", errMsg)

	if suggestion != "" {
		fmt.Fprintf(&buf, "\n\nSuggestion: %s", suggestion)
	}

	return buf.String()
}

// WrapError wraps a regular error into a UserError with context
func WrapError(err error, operation, file string) UserError {
	return NewErrorBuilder().
		WithOperation(operation).
		WithFile(file).
		WithError(err).
		Build()
}

// ExitCode returns an appropriate exit code for an error
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var userErr UserError
	if !errors.As(err, &userErr) {
		return 1
	}

	switch userErr.Code {
	case ErrCodeFileNotFound, ErrCodeNoteNotFound:
		return 2
	case ErrCodePermissionDenied:
		return 3
	case ErrCodeInvalidConfig, ErrCodeInvalidSyntax:
		return 4
	case ErrCodeStore:
		return 5
	default:
		return 1
	}
}

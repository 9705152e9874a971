package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Config errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigInvalid   ErrorCode = "CONFIG-001"
	ErrCodeConfigUnmarshal ErrorCode = "CONFIG-002"

	// Manifest errors (MANIFEST-001 to MANIFEST-099)
	ErrCodeManifestNotFound     ErrorCode = "MANIFEST-001"
	ErrCodeManifestInvalid      ErrorCode = "MANIFEST-002"
	ErrCodeManifestFieldMissing ErrorCode = "MANIFEST-003"

	// Execution errors (EXEC-001 to EXEC-099)
	ErrCodeExecStartFailed ErrorCode = "EXEC-001"
	ErrCodeExecTimeout     ErrorCode = "EXEC-002"
	ErrCodeExecNonZeroExit ErrorCode = "EXEC-003"

	// Verification errors (VERIFY-001 to VERIFY-099)
	ErrCodeVerifyFileMissing ErrorCode = "VERIFY-001"
	ErrCodeVerifyCheckFailed ErrorCode = "VERIFY-002"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeFileUnmarshal   ErrorCode = "IO-004"
)

// PrepubError represents an enhanced error with code, suggestions, and documentation
type PrepubError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *PrepubError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *PrepubError) Unwrap() error {
	return e.Cause
}

// New creates a new PrepubError
func New(code ErrorCode, message string) *PrepubError {
	return &PrepubError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new PrepubError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *PrepubError {
	return &PrepubError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *PrepubError) WithSuggestion(suggestion string) *PrepubError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *PrepubError) WithSuggestions(suggestions ...string) *PrepubError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *PrepubError) WithDocs(url string) *PrepubError {
	e.DocsURL = url
	return e
}

// Common error constructors for frequently used errors

// NewManifestNotFoundError creates a package.json not found error
func NewManifestNotFoundError(path string) *PrepubError {
	return New(ErrCodeManifestNotFound, fmt.Sprintf("package manifest not found: %s", path)).
		WithSuggestion("Run prepub from the package root (the directory containing package.json)").
		WithSuggestion("Check if the file path is correct")
}

// NewManifestFieldMissingError creates a required-field error
func NewManifestFieldMissingError(field string) *PrepubError {
	return New(ErrCodeManifestFieldMissing, fmt.Sprintf("package.json is missing required field: %s", field)).
		WithSuggestion(fmt.Sprintf("Add a %q entry to package.json before publishing", field))
}

// NewExecStartFailedError creates an error for a command that could not be launched
func NewExecStartFailedError(command string, cause error) *PrepubError {
	return Wrap(ErrCodeExecStartFailed, fmt.Sprintf("failed to start command: %s", command), cause).
		WithSuggestion(fmt.Sprintf("Check that %q is installed and on PATH", command))
}

// NewVerifyFileMissingError creates an error for a missing required build output
func NewVerifyFileMissingError(path string) *PrepubError {
	return New(ErrCodeVerifyFileMissing, fmt.Sprintf("required build output missing: %s", path)).
		WithSuggestion("Run the package build before verifying").
		WithSuggestion("Check the required file list in .prepub.yaml")
}

// NewConfigUnmarshalError creates a config parse error
func NewConfigUnmarshalError(path string, cause error) *PrepubError {
	return Wrap(ErrCodeConfigUnmarshal, fmt.Sprintf("failed to parse config file: %s", path), cause).
		WithSuggestion("Check the YAML syntax of the config file")
}

// NewFileUnmarshalError creates an unmarshal error
func NewFileUnmarshalError(path string, format string, cause error) *PrepubError {
	return Wrap(ErrCodeFileUnmarshal, fmt.Sprintf("failed to parse %s file: %s", format, path), cause).
		WithSuggestion("Check the file syntax and format").
		WithSuggestion(fmt.Sprintf("Ensure the file is valid %s", format))
}

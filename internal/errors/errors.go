// Package errors provides a lightweight structured error type
// (LinkRouterError) for category-based classification in the build pipeline
// and CLI.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a linkrouter error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Build and processing errors
	CategoryRender     ErrorCategory = "render"
	CategoryRewrite    ErrorCategory = "rewrite"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Record sinks
	CategoryStore   ErrorCategory = "store"
	CategoryPublish ErrorCategory = "publish"

	// Runtime and infrastructure errors
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// LinkRouterError is a structured error with category, retryability, and context
type LinkRouterError struct {
	Category  ErrorCategory `json:"category"`
	Severity  ErrorSeverity `json:"severity"`
	Message   string        `json:"message"`
	Cause     error         `json:"cause,omitempty"`
	Retryable bool          `json:"retryable"`
	Context   ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for LinkRouterError
type ContextFields map[string]any

// Error implements the error interface
func (e *LinkRouterError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *LinkRouterError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *LinkRouterError) WithContext(key string, value any) *LinkRouterError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new LinkRouterError
func New(category ErrorCategory, severity ErrorSeverity, message string) *LinkRouterError {
	return &LinkRouterError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Retryable: false,
	}
}

// Wrap creates a new LinkRouterError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *LinkRouterError {
	return &LinkRouterError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Cause:     err,
		Retryable: false,
	}
}

// WrapRetryable creates a new retryable LinkRouterError that wraps an existing error
func WrapRetryable(err error, category ErrorCategory, severity ErrorSeverity, message string) *LinkRouterError {
	return &LinkRouterError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Cause:     err,
		Retryable: true,
	}
}

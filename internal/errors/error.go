package errors

import (
	"fmt"
	"strings"
)

// Category represents the type of error.
type Category string

const (
	CategoryResolution Category = "resolution"
	CategoryTemplate   Category = "template"
	CategoryDirective  Category = "directive"
	CategoryLifecycle  Category = "lifecycle"
	CategoryConfig     Category = "config"
	CategoryCLI        Category = "cli"
)

// RippleError is a structured error with a stable code, category, and
// optional fix suggestion.
type RippleError struct {
	// Code is a unique error identifier (e.g., "R001").
	Code string

	// Category is the error type (resolution, template, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *RippleError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *RippleError) Unwrap() error {
	return e.Wrapped
}

// WithDetail adds a detailed explanation to the error.
func (e *RippleError) WithDetail(format string, args ...any) *RippleError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *RippleError) WithSuggestion(s string) *RippleError {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *RippleError) Wrap(err error) *RippleError {
	e.Wrapped = err
	return e
}

// Format returns a multi-line rendering of the error for terminal display.
func (e *RippleError) Format() string {
	var b strings.Builder
	b.WriteString("ERROR ")
	if e.Code != "" {
		b.WriteString(e.Code + ": ")
	}
	b.WriteString(e.Message)
	if e.Detail != "" {
		b.WriteString("\n  " + e.Detail)
	}
	if e.Wrapped != nil {
		b.WriteString("\n  caused by: " + e.Wrapped.Error())
	}
	if e.Suggestion != "" {
		b.WriteString("\n  hint: " + e.Suggestion)
	}
	return b.String()
}

// New creates a RippleError from a registered error code.
func New(code string) *RippleError {
	template, ok := registry[code]
	if !ok {
		return &RippleError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &RippleError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new RippleError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *RippleError {
	return &RippleError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a RippleError.
func FromError(err error, code string) *RippleError {
	if err == nil {
		return nil
	}
	e := New(code)
	e.Wrapped = err
	return e
}

// IsCategory reports whether err is a RippleError of the given category.
func IsCategory(err error, c Category) bool {
	re, ok := err.(*RippleError)
	if !ok {
		return false
	}
	return re.Category == c
}

// IsResolution reports whether err is a node/selector resolution failure.
func IsResolution(err error) bool {
	return IsCategory(err, CategoryResolution)
}

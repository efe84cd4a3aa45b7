// Package nebulaerrors provides structured error handling for the table bridge
// with rich context, stack traces, and error categorization.
//
// # Overview
//
// The nebulaerrors package extends Go's standard error handling with:
//   - Error categorization through ErrorType
//   - Structured context with key-value details
//   - Automatic stack trace capture
//   - Error wrapping with cause preservation
//
// # Basic Usage
//
//	// Reject a column the converters cannot map
//	err := nebulaerrors.UnsupportedColumnType("embedding", "object")
//
//	// Add context
//	err = err.WithDetail("height", table.Height())
//
//	// Check the category
//	if nebulaerrors.IsType(err, nebulaerrors.ErrorTypeUnsupportedColumnType) {
//	    // report the offending column
//	}
//
// # Error Types
//
// Conversion failures fall into three user-visible categories:
//   - ErrorTypeUnsupportedColumnType: a column or attribute has no mapping;
//     the error always names the offending column.
//   - ErrorTypeInvalidArgument: a required input was nil; raised before any
//     work begins.
//   - ErrorTypeTaskFailure: a parallel column task panicked. Ordinary task
//     errors are never wrapped into this type, they surface unchanged.
//
// # Thread Safety
//
// Error instances are not thread-safe for modification. Create new
// instances or use WithDetail before sharing across goroutines.
package nebulaerrors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType represents the category of error, used by callers to decide how
// to report a failed conversion.
type ErrorType string

const (
	// ErrorTypeInternal represents internal invariant violations
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeUnsupportedColumnType represents a column or attribute type without mapping
	ErrorTypeUnsupportedColumnType ErrorType = "unsupported_column_type"
	// ErrorTypeInvalidArgument represents a nil or malformed required input
	ErrorTypeInvalidArgument ErrorType = "invalid_argument"
	// ErrorTypeTaskFailure represents a parallel task that failed without an error value
	ErrorTypeTaskFailure ErrorType = "task_failure"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeState represents an operation that is illegal in the current state
	ErrorTypeState ErrorType = "state"
)

// Error represents a structured error with context, providing rich debugging
// information and enabling type-based handling.
//
// Fields:
//   - Type: Categorizes the error
//   - Message: Human-readable error description
//   - Cause: The underlying error that caused this error
//   - Details: Key-value pairs providing additional context
//   - Stack: Call stack at the point of error creation
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack, capturing
// the function name, file path, and line number for debugging.
type StackFrame struct {
	Function string // Fully qualified function name
	File     string // Source file path
	Line     int    // Line number in source file
}

// Error implements the error interface, returning a formatted error message
// that includes the error type, message, and cause (if present).
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error, enabling compatibility with errors.Is
// and errors.As for error chain inspection.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error. This method can be chained
// for adding multiple details.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Detail returns the detail stored under key.
func (e *Error) Detail(key string) (interface{}, bool) {
	v, ok := e.Details[key]
	return v, ok
}

// New creates a new error with the given type and message, automatically
// capturing the call stack at the point of creation.
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf is New with a formatted message.
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context, preserving the original
// error as the cause. If the error is already a structured Error, its stack
// trace is preserved. Returns nil if the input error is nil.
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack
	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// UnsupportedColumnType reports a column whose type has no mapping in the
// other representation. The column name and type are kept as details.
func UnsupportedColumnType(column, typ string) *Error {
	return &Error{
		Type:    ErrorTypeUnsupportedColumnType,
		Message: fmt.Sprintf("column %q has unsupported type %s", column, typ),
		Details: map[string]interface{}{
			"column": column,
			"type":   typ,
		},
		Stack: captureStack(2),
	}
}

// InvalidArgument reports a missing required input.
func InvalidArgument(name string) *Error {
	return &Error{
		Type:    ErrorTypeInvalidArgument,
		Message: fmt.Sprintf("%s must not be nil", name),
		Details: map[string]interface{}{
			"argument": name,
		},
		Stack: captureStack(2),
	}
}

// IsType checks if the error is of the given type.
//
// Example:
//
//	if nebulaerrors.IsType(err, nebulaerrors.ErrorTypeUnsupportedColumnType) {
//	    column, _ := err.(*nebulaerrors.Error).Detail("column")
//	    log.Printf("cannot convert %v", column)
//	}
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// captureStack captures the current call stack up to maxFrames deep,
// skipping the specified number of frames from the top.
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}

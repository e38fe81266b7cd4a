// Package errors provides structured error types for nodeforest.
//
// This package defines error codes and types that enable:
//   - Consistent error reporting across the CLI, the TUI and the HTTP API
//   - Machine-readable error codes for programmatic handling
//   - Precise user feedback that names the offending node
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes are grouped by the category of failure:
//   - Input shape: the request itself is malformed (EMPTY_BATCH, INVALID_INPUT)
//   - Referential: a referenced node does not exist (TARGET_NOT_FOUND, NODE_NOT_FOUND)
//   - Structural: the move would break the forest (SELF_PARENT, DESCENDANT_CYCLE, ALREADY_IN_PLACE)
//   - Storage/internal: reading or writing the node list failed (STORAGE, INTERNAL)
//
// The first three categories are validation failures. They are detected before
// any mutation and are always recoverable: the caller shows the message and the
// user retries with corrected input.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNodeNotFound, "node %d not found", id).WithNode(id)
//	if errors.Is(err, errors.ErrCodeNodeNotFound) {
//	    // Handle missing node
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStorage, origErr, "write nodes")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input shape errors
	ErrCodeEmptyBatch   Code = "EMPTY_BATCH"
	ErrCodeInvalidInput Code = "INVALID_INPUT"

	// Referential errors
	ErrCodeTargetNotFound Code = "TARGET_NOT_FOUND"
	ErrCodeNodeNotFound   Code = "NODE_NOT_FOUND"

	// Structural violations
	ErrCodeSelfParent      Code = "SELF_PARENT"
	ErrCodeDescendantCycle Code = "DESCENDANT_CYCLE"
	ErrCodeAlreadyInPlace  Code = "ALREADY_IN_PLACE"

	// Storage and internal errors
	ErrCodeStorage  Code = "STORAGE"
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Category groups codes by how a caller should react to them.
type Category int

const (
	// CategoryUnknown is returned for errors that carry no code.
	CategoryUnknown Category = iota
	// CategoryInput covers malformed or empty requests.
	CategoryInput
	// CategoryReferential covers unknown node or target ids.
	CategoryReferential
	// CategoryStructural covers moves that would break the forest.
	CategoryStructural
	// CategoryStorage covers repository and unexpected internal failures.
	CategoryStorage
)

var categories = map[Code]Category{
	ErrCodeEmptyBatch:      CategoryInput,
	ErrCodeInvalidInput:    CategoryInput,
	ErrCodeTargetNotFound:  CategoryReferential,
	ErrCodeNodeNotFound:    CategoryReferential,
	ErrCodeSelfParent:      CategoryStructural,
	ErrCodeDescendantCycle: CategoryStructural,
	ErrCodeAlreadyInPlace:  CategoryStructural,
	ErrCodeStorage:         CategoryStorage,
	ErrCodeInternal:        CategoryStorage,
}

// String returns a lowercase name for the category, suitable for metric labels.
func (c Category) String() string {
	switch c {
	case CategoryInput:
		return "input"
	case CategoryReferential:
		return "referential"
	case CategoryStructural:
		return "structural"
	case CategoryStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	NodeID  *int64 // Offending node, when the failure is about one node
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithNode records the offending node id and returns e.
func (e *Error) WithNode(id int64) *Error {
	e.NodeID = &id
	return e
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// GetNodeID extracts the offending node id from an error, if one was recorded.
func GetNodeID(err error) (int64, bool) {
	var e *Error
	if errors.As(err, &e) && e.NodeID != nil {
		return *e.NodeID, true
	}
	return 0, false
}

// CategoryOf returns the category of the outermost coded error in err's chain.
func CategoryOf(err error) Category {
	return categories[GetCode(err)]
}

// IsValidation reports whether err is a validation failure (input, referential
// or structural), as opposed to a storage or unclassified error.
func IsValidation(err error) bool {
	switch CategoryOf(err) {
	case CategoryInput, CategoryReferential, CategoryStructural:
		return true
	}
	return false
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

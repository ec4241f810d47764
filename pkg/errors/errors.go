// Package errors provides structured error types for taxmagick.
//
// The core packages return plain sentinel errors wrapped with context. At the
// CLI and HTTP boundaries those are classified into an [Error] carrying a
// machine-readable [Code]:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND: Unknown taxa, files or remote objects
//   - NETWORK_*: Download failures
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "invalid tax id: %q", id)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Classify a core error
//	e := errors.Classify(err)
//	http.Error(w, e.Message, errors.HTTPStatus(e.Code))
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	taxio "github.com/taxmagick/taxmagick/pkg/io"
	"github.com/taxmagick/taxmagick/pkg/source"
	"github.com/taxmagick/taxmagick/pkg/taxdump"
	"github.com/taxmagick/taxmagick/pkg/taxonomy"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidTaxID   Code = "INVALID_TAX_ID"
	ErrCodeInvalidSource  Code = "INVALID_SOURCE"
	ErrCodeInvalidArchive Code = "INVALID_ARCHIVE"
	ErrCodeInvalidTree    Code = "INVALID_TREE"

	// Resource not found errors
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeTaxonNotFound Code = "TAXON_NOT_FOUND"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
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

// classes maps sentinel errors from the core packages to codes. The first
// match in the chain wins, so more specific sentinels come first.
var classes = []struct {
	target error
	code   Code
}{
	{taxonomy.ErrUnknownTaxon, ErrCodeTaxonNotFound},
	{taxonomy.ErrNoRoot, ErrCodeInvalidTree},
	{taxonomy.ErrMultipleRoots, ErrCodeInvalidTree},
	{taxonomy.ErrUnknownRank, ErrCodeInvalidTree},
	{taxio.ErrInvalidGraph, ErrCodeInvalidTree},
	{taxdump.ErrMalformedRecord, ErrCodeInvalidArchive},
	{taxdump.ErrMissingMember, ErrCodeInvalidArchive},
	{taxdump.ErrUnsupportedFormat, ErrCodeInvalidArchive},
	{source.ErrUnsupportedScheme, ErrCodeInvalidSource},
	{source.ErrNotFound, ErrCodeNotFound},
	{source.ErrNetwork, ErrCodeNetwork},
	{context.DeadlineExceeded, ErrCodeTimeout},
	{os.ErrNotExist, ErrCodeFileNotFound},
}

// Classify returns err as an *Error. Errors that already carry a code are
// returned unchanged; known sentinels are given their code; anything else
// becomes INTERNAL_ERROR. Classify returns nil for a nil error.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	for _, c := range classes {
		if errors.Is(err, c.target) {
			return &Error{Code: c.code, Message: err.Error(), Cause: err}
		}
	}
	return &Error{Code: ErrCodeInternal, Message: err.Error(), Cause: err}
}

// HTTPStatus maps an error code to an HTTP status code.
func HTTPStatus(code Code) int {
	switch code {
	case ErrCodeInvalidInput, ErrCodeInvalidTaxID, ErrCodeInvalidSource:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeTaxonNotFound, ErrCodeFileNotFound:
		return http.StatusNotFound
	case ErrCodeNetwork:
		return http.StatusBadGateway
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

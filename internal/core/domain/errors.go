// Package domain defines the core domain models for snipkit.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error code.
// Codes have the form SK-<AREA>-<NNNN>.
type DomainError struct {
	Code    string // Error code (e.g., "SK-SNIP-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// Wrap wraps an error with this domain error as the cause.
func (e *DomainError) Wrap(cause error) *DomainError {
	return e.WithCause(cause)
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Snippet Errors (SNIP)
// ============================================================================

var (
	// ErrSnippetNotFound indicates no snippet with the requested key exists.
	ErrSnippetNotFound = NewDomainError("SK-SNIP-4040", "snippet not found")

	// ErrSnippetConflict indicates the snippet key already exists.
	ErrSnippetConflict = NewDomainError("SK-SNIP-4090", "snippet key conflict")

	// ErrSnippetValidation indicates snippet data validation failed.
	ErrSnippetValidation = NewDomainError("SK-SNIP-4001", "snippet validation failed")

	// ErrFileNotFound indicates a file index or key outside the snippet.
	ErrFileNotFound = NewDomainError("SK-SNIP-4041", "file not found")
)

// ============================================================================
// Edit Session Errors (EDIT)
// ============================================================================

var (
	// ErrNotEditing indicates a draft mutation was attempted outside edit mode.
	ErrNotEditing = NewDomainError("SK-EDIT-4000", "snippet is not in edit mode")

	// ErrAlreadyEditing indicates Begin was called twice.
	ErrAlreadyEditing = NewDomainError("SK-EDIT-4001", "snippet is already in edit mode")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrInternal indicates an unexpected internal failure.
	ErrInternal = NewDomainError("SK-SYS-5000", "internal error")

	// ErrStorageError indicates a storage layer error.
	ErrStorageError = NewDomainError("SK-SYS-5001", "storage error")

	// ErrStorageUnavailable indicates the snippet document does not exist.
	ErrStorageUnavailable = NewDomainError("SK-SYS-5002", "snippet document unavailable")

	// ErrStorageCorrupt indicates the snippet document could not be decoded.
	ErrStorageCorrupt = NewDomainError("SK-SYS-5003", "snippet document is malformed")
)

// ============================================================================
// Argument Errors (ARG)
// ============================================================================

var (
	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewDomainError("SK-ARG-1001", "invalid argument")

	// ErrMissingArgument indicates a required argument is missing.
	ErrMissingArgument = NewDomainError("SK-ARG-1002", "missing required argument")
)

// ============================================================================
// Backup Errors (BAK)
// ============================================================================

var (
	// ErrBackupNotFound indicates the requested backup does not exist.
	ErrBackupNotFound = NewDomainError("SK-BAK-4040", "backup not found")

	// ErrBackupCorrupt indicates a backup failed magic or checksum verification.
	ErrBackupCorrupt = NewDomainError("SK-BAK-4220", "backup is corrupt")

	// ErrBackupLocked indicates an encrypted backup was opened without a passphrase
	// or with the wrong one.
	ErrBackupLocked = NewDomainError("SK-BAK-4010", "backup is encrypted")
)

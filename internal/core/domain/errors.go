package domain

import "errors"

// Common domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrDuplicateEntry      = errors.New("duplicate entry")
	ErrScholarshipNotFound = errors.New("scholarship not found")
	ErrStudentNotFound     = errors.New("student not found")
	ErrContractNotFound    = errors.New("contract not found")
	ErrStudentRevoked      = errors.New("student scholarship is revoked")
)

// ValidationError indicates a publish or update request failed a
// required-field check. It is raised before any side effect, so the
// caller can fix the input and resubmit.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError creates a validation error with a human-readable reason
func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

// IsValidationError reports whether err is a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StorageError indicates a blob store or database write failed mid-sequence.
// Effects of earlier steps are not rolled back beyond the enclosing database
// transaction; an already-stored file stays on disk.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return "storage: " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err with the failing operation name
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// IsStorageError reports whether err is a StorageError
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

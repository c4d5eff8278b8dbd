package dispatch

import "fmt"

// InvalidInputError reports client input rejected before any processing:
// wrong extension for the requested operation, or a malformed field.
type InvalidInputError struct {
    Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

// StorageError reports a failure to persist an upload or artifact.
type StorageError struct {
    Cause error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage failure: %v", e.Cause) }

func (e *StorageError) Unwrap() error { return e.Cause }

// NotFoundError reports a download request for a file that does not exist.
type NotFoundError struct {
    Filename string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("file not found: %s", e.Filename) }

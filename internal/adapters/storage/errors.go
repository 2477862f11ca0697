package storage

import (
	"errors"
	"fmt"
)

var (
	ErrFileNotFound       = errors.New("artifact not found")
	ErrFileAlreadyExists  = errors.New("artifact already exists")
	ErrInvalidKey         = errors.New("invalid artifact key")
	ErrStorageUnavailable = errors.New("artifact store unavailable")
)

// StorageError ties a backend failure to the operation and key that caused it.
// Retryable marks transient failures that RetryableFileStorage may repeat.
type StorageError struct {
	Op        string
	Key       string
	Err       error
	Retryable bool
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError creates a new StorageError
func NewStorageError(op, key string, err error, retryable bool) *StorageError {
	return &StorageError{Op: op, Key: key, Err: err, Retryable: retryable}
}

// IsNotFound reports whether err means the key does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, ErrFileNotFound)
}

// IsAlreadyExists reports whether a non-overwriting store hit an existing key
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrFileAlreadyExists)
}

// IsRetryable reports whether err is worth another attempt
func IsRetryable(err error) bool {
	var se *StorageError
	if errors.As(err, &se) {
		return se.Retryable
	}
	return errors.Is(err, ErrStorageUnavailable)
}

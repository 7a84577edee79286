package model

import (
	"errors"
	"fmt"
)

// URL validation errors.
var (
	ErrEmptyURL          = errors.New("URL is empty")
	ErrInvalidFormat     = errors.New("URL is not valid")
	ErrUnsupportedScheme = errors.New("only http:// and https:// URLs are supported")
)

// Lifecycle errors.
var (
	ErrInboxFull         = errors.New("inbox is full, triage existing items first")
	ErrNotFound          = errors.New("item not found")
	ErrInvalidTransition = errors.New("invalid state transition")
)

// CreationError reports why an item could not be created.
type CreationError struct {
	Err error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("could not create item: %v", e.Err)
}

func (e *CreationError) Unwrap() error { return e.Err }

// StorageError wraps a failure of the underlying record store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsStorageError reports whether err is, or wraps, a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

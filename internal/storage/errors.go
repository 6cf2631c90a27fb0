package storage

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput     = errors.New("file is empty or missing")
	ErrFileTooLarge     = errors.New("file exceeds maximum allowed size")
	ErrInvalidCategory  = errors.New("unknown upload category")
	ErrInvalidReference = errors.New("invalid file reference")
	ErrNotFound         = errors.New("file not found")
	ErrStorageWrite     = errors.New("storage write failed")
)

// WriteError reports an I/O failure while persisting an upload.
// It matches ErrStorageWrite with errors.Is.
type WriteError struct {
	Op   string
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

func (e *WriteError) Is(target error) bool { return target == ErrStorageWrite }

package storage

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("storage: not found")
	ErrInvalidName     = errors.New("storage: task name must not be empty")
	ErrDuplicateTask   = errors.New("storage: task already exists")
	ErrTaskNotFound    = errors.New("storage: task not found")
	ErrInvalidSortKey  = errors.New("storage: invalid sort key")
	ErrInvalidDuration = errors.New("storage: duration must not be negative")
	ErrStoreLocked     = errors.New("storage: task file is in use by another process")
)

// StoreIOError reports a failed read or write of the task log.
type StoreIOError struct {
	Op   string
	Path string
	Err  error
}

func (e *StoreIOError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreIOError) Unwrap() error {
	return e.Err
}

package tracker

import "fmt"

// ValidationError reports a required field that is missing or malformed on a
// write request. Handlers map it to a 400 response.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an id that does not exist on a path that requires it
// to (update, delete, transition). Handlers map it to a 404 response.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: id %d", e.Entity, e.ID)
}

// StorageError wraps an underlying persistence fault. By the time it
// surfaces, the enclosing transaction has been rolled back. Handlers map it
// to a 500 response.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

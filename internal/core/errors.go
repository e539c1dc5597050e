package core

import "fmt"

// NotFoundError reports a gerrit number or commit with no corresponding
// record, locally or remotely. It is a terminal answer, not a transient
// failure.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func notFoundf(format string, args ...any) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// OperationError reports a failed repository or review-service operation,
// wrapping the underlying cause.
type OperationError struct {
	Message string
	Err     error
}

func (e *OperationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *OperationError) Unwrap() error { return e.Err }

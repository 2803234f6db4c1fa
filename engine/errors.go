package engine

import "fmt"

// NotImplementedError reports a combination of index code and day-count
// convention that is structurally valid but has no implemented factor
// formula yet.
type NotImplementedError struct {
	Message string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("engine: not implemented: %s", e.Message)
}

func newNotImplementedError(format string, args ...any) *NotImplementedError {
	return &NotImplementedError{Message: fmt.Sprintf(format, args...)}
}

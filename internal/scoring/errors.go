package scoring

import (
	"errors"
	"fmt"
)

// InvalidEventError is returned when a scoring event violates a precondition
// (missing bowler, over already full, dismissed player reselected, ...).
// The event is rejected and the match state is left unchanged.
type InvalidEventError struct {
	Rule string
}

func (e *InvalidEventError) Error() string {
	return "invalid event: " + e.Rule
}

func invalidEventf(format string, args ...interface{}) error {
	return &InvalidEventError{Rule: fmt.Sprintf(format, args...)}
}

// IsInvalidEvent reports whether err is a rejected scoring event.
func IsInvalidEvent(err error) bool {
	var ie *InvalidEventError
	return errors.As(err, &ie)
}

// PersistenceError wraps a failed snapshot save. The in-memory transition has
// already been applied and must not be rolled back; callers may retry the save.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return "persistence failure: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

package gallery

import "errors"

// ErrNotFound reports a lookup miss by id or filename. Callers map it to an
// absent-resource response; it is never a fault.
var ErrNotFound = errors.New("not found")

// ValidationError reports a missing or empty required field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return e.Field + " is required"
}

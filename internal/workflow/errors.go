package workflow

import "fmt"

// MissingInput is the ValidationError message for blank required fields.
const MissingInput = "missing input"

// ValidationError reports a required input that is empty after trimming.
// No model service is called when it is returned.
type ValidationError struct {
	Field   string
	Message string
	// Hint is the sentence shown to the user.
	Hint string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ServiceError wraps a failure of a model service or of its initialization.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Message is the underlying service message without the operation prefix.
func (e *ServiceError) Message() string {
	if e.Err == nil {
		return "unknown error"
	}
	return e.Err.Error()
}

// call runs fn, converting both returned errors and panics into a ServiceError.
func call[T any](op string, fn func() (T, error)) (res T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			res, err = zero, &ServiceError{Op: op, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	res, err = fn()
	if err != nil {
		return res, &ServiceError{Op: op, Err: err}
	}
	return res, nil
}

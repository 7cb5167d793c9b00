package insights

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDataUnavailable matches any DataUnavailableError via errors.Is.
var ErrDataUnavailable = errors.New("no job or event data available")

// DataUnavailableError is returned when every grounding dataset is empty.
// The engine refuses to answer instead of calling the model.
type DataUnavailableError struct {
	Datasets []string
	Message  string
}

func (e *DataUnavailableError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = ErrDataUnavailable.Error()
	}
	if len(e.Datasets) == 0 {
		return msg
	}
	return fmt.Sprintf("%s (datasets: %s)", msg, strings.Join(e.Datasets, ", "))
}

// Is reports whether target is ErrDataUnavailable.
func (e *DataUnavailableError) Is(target error) bool {
	return target == ErrDataUnavailable
}

// ModelInvocationError wraps a failed call to the model. It is never retried.
type ModelInvocationError struct {
	Model string
	Cause error
}

func (e *ModelInvocationError) Error() string {
	if e.Model == "" {
		return fmt.Sprintf("model invocation failed: %v", e.Cause)
	}
	return fmt.Sprintf("model invocation failed (%s): %v", e.Model, e.Cause)
}

func (e *ModelInvocationError) Unwrap() error {
	return e.Cause
}

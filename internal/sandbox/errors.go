package sandbox

import "fmt"

// StartError is returned by a runner when the process could not be spawned.
type StartError struct {
	Command string
	Cause   error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Command, e.Cause)
}

func (e *StartError) Unwrap() error {
	return e.Cause
}

package orchestrator

import (
	"errors"
	"fmt"
)

var (
	// ErrRoundLimitExceeded is matched by RoundLimitError.
	ErrRoundLimitExceeded = errors.New("round limit exceeded")

	// ErrMultiLineCommand is the cause of the malformed-response error for a
	// final answer that is not a single command line.
	ErrMultiLineCommand = errors.New("final answer spans multiple lines")
)

// RoundLimitError is returned when the model keeps requesting tools past the
// configured number of rounds.
type RoundLimitError struct {
	Rounds int
}

func (e *RoundLimitError) Error() string {
	return fmt.Sprintf("max tool rounds (%d) exceeded", e.Rounds)
}

func (e *RoundLimitError) Unwrap() error {
	return ErrRoundLimitExceeded
}

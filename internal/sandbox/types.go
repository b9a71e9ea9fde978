package sandbox

import (
	"fmt"
	"strings"
	"time"
)

// PermissionDenied is the fixed output of a denied request.
const PermissionDenied = "Permission Denied"

const truncatedMarker = "...(truncated)"

// Status classifies how an execution ended.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusDenied    Status = "denied"
	StatusTimedOut  Status = "timed_out"
	StatusErrored   Status = "errored"
)

// Request names one command and its verbatim argument vector.
// Both fields are untrusted.
type Request struct {
	ID      string
	Command string
	Args    []string
}

// Result is the outcome of one Execute call.
type Result struct {
	ID        string
	Command   string
	Status    Status
	Output    string
	Reason    string
	ExitCode  int
	Truncated bool
	Duration  time.Duration
}

// Content renders the result as the text shown to the model.
func (r *Result) Content() string {
	switch r.Status {
	case StatusDenied:
		return fmt.Sprintf("%s: '%s' is not in the allowed command list.", PermissionDenied, r.Command)
	case StatusErrored:
		return "Error: " + r.Reason
	}

	var b strings.Builder
	b.WriteString(strings.ToValidUTF8(r.Output, "�"))
	if r.Truncated {
		b.WriteString(truncatedMarker)
	}
	if r.Status == StatusTimedOut {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("Error: timeout reached")
		return b.String()
	}
	if r.ExitCode != 0 {
		fmt.Fprintf(&b, "\n[exit %d]", r.ExitCode)
	}
	return b.String()
}

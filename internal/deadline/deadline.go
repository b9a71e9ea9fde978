// Package deadline threads one absolute wall-clock budget through every
// blocking operation of an invocation.
//
// The budget is carried by a context.Context deadline. Each suspension point
// (an HTTP round trip, a child process) checks it before blocking and is
// bounded by whatever remains.
package deadline

import (
	"context"
	"errors"
	"time"
)

// Default is the budget of a single invocation.
const Default = 15 * time.Second

// ErrExceeded is returned once the invocation's deadline has passed.
var ErrExceeded = errors.New("deadline exceeded")

// Start returns a context that expires budget from now.
func Start(parent context.Context, budget time.Duration) (context.Context, context.CancelFunc) {
	return StartAt(parent, time.Now(), budget)
}

// StartAt returns a context that expires budget after start. It lets the
// clock begin before the budget itself is known.
func StartAt(parent context.Context, start time.Time, budget time.Duration) (context.Context, context.CancelFunc) {
	return context.WithDeadline(parent, start.Add(budget))
}

// Remaining returns the time left before the deadline.
// ok is false when ctx carries no deadline.
func Remaining(ctx context.Context) (remaining time.Duration, ok bool) {
	d, ok := ctx.Deadline()
	if !ok {
		return 0, false
	}
	remaining = time.Until(d)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

// Check returns ErrExceeded if the deadline has passed, ctx.Err() if the
// context was cancelled for another reason, and nil otherwise.
func Check(ctx context.Context) error {
	if remaining, ok := Remaining(ctx); ok && remaining == 0 {
		return ErrExceeded
	}
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrExceeded
		}
		return err
	}
	return nil
}

// Exceeded reports whether err was caused by the deadline carried by ctx.
func Exceeded(ctx context.Context, err error) bool {
	if errors.Is(err, ErrExceeded) {
		return true
	}
	return errors.Is(ctx.Err(), context.DeadlineExceeded) &&
		(err == nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || isTimeout(err))
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

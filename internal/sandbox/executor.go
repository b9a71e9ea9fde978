// Package sandbox runs whitelisted, read-only inspection commands on behalf
// of the model. Commands are spawned directly with their argument vector;
// no shell is ever involved.
package sandbox

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"
)

// Executor validates requests against a Policy and runs the permitted ones.
type Executor struct {
	policy *Policy
	runner ProcessRunner
	logger *slog.Logger
}

// NewExecutor creates an Executor. A nil runner uses OSProcessRunner.
func NewExecutor(policy *Policy, runner ProcessRunner, logger *slog.Logger) *Executor {
	if policy == nil {
		panic("policy is required")
	}
	if runner == nil {
		runner = &OSProcessRunner{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Executor{policy: policy, runner: runner, logger: logger}
}

// Policy returns the policy the executor enforces.
func (e *Executor) Policy() *Policy {
	return e.policy
}

// Execute runs req within ctx's deadline. It never returns an error: denial,
// timeout and spawn failures are all reported through Result.Status.
func (e *Executor) Execute(ctx context.Context, req Request) *Result {
	res := &Result{ID: req.ID, Command: req.Command, ExitCode: -1}

	if !e.policy.Allows(req.Command) {
		e.logger.Warn("command denied", "id", req.ID, "command", req.Command)
		res.Status = StatusDenied
		res.Output = PermissionDenied
		res.Reason = "command is not in the allowed command list"
		return res
	}

	if err := ctx.Err(); err != nil {
		res.Status = statusFor(err)
		res.Reason = err.Error()
		return res
	}

	if timeout := e.policy.CommandTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	out := newCollector(e.policy.MaxOutputBytes(), binarySampleSize)
	start := time.Now()
	code, err := e.runner.Run(ctx, req.Command, slices.Clone(req.Args), out)
	res.Duration = time.Since(start)
	res.Output = out.String()
	res.Truncated = out.Truncated()

	if err != nil {
		res.Status = statusFor(err)
		res.Reason = err.Error()
		e.logger.Debug("command failed", "id", req.ID, "command", req.Command,
			"status", res.Status, "error", err, "duration", res.Duration)
		return res
	}

	res.Status = StatusSucceeded
	res.ExitCode = code
	e.logger.Debug("command finished", "id", req.ID, "command", req.Command,
		"exit_code", code, "bytes", out.Len(), "truncated", res.Truncated, "duration", res.Duration)
	return res
}

func statusFor(err error) Status {
	if errors.Is(err, context.DeadlineExceeded) {
		return StatusTimedOut
	}
	return StatusErrored
}

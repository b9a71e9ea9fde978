package sandbox

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"time"
)

// defaultWaitDelay bounds how long Wait keeps copying output after the child
// has exited or been killed.
const defaultWaitDelay = 250 * time.Millisecond

// ProcessRunner spawns one process and waits for it. It must not involve a
// shell. Implementations return the exit code on normal completion and
// ctx.Err() once ctx is done and the child has been killed.
type ProcessRunner interface {
	Run(ctx context.Context, name string, args []string, out io.Writer) (exitCode int, err error)
}

// OSProcessRunner runs commands with os/exec.
type OSProcessRunner struct {
	WaitDelay time.Duration
}

// Run starts name with args, sending stdout and stderr to out, and kills the
// child if ctx is done first.
func (r *OSProcessRunner) Run(ctx context.Context, name string, args []string, out io.Writer) (int, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdin = nil
	// Same comparable writer for both streams: exec serialises the writes.
	cmd.Stdout = out
	cmd.Stderr = out
	cmd.WaitDelay = r.WaitDelay
	if cmd.WaitDelay == 0 {
		cmd.WaitDelay = defaultWaitDelay
	}

	if err := cmd.Start(); err != nil {
		return -1, &StartError{Command: name, Cause: err}
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case err := <-done:
		return exitCode(err)
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-done
		return -1, ctx.Err()
	}
}

func exitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

package hwid

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// DefaultCommandTimeout bounds every spawned utility.
const DefaultCommandTimeout = 5 * time.Second

// CommandExecutor runs an external utility and returns its trimmed stdout.
// A non-zero exit, a start failure or a timeout is reported as *CommandError.
type CommandExecutor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
}

// ExecutorFunc adapts a function to CommandExecutor.
type ExecutorFunc func(ctx context.Context, name string, args ...string) (string, error)

// Execute calls f.
func (f ExecutorFunc) Execute(ctx context.Context, name string, args ...string) (string, error) {
	return f(ctx, name, args...)
}

// defaultCommandExecutor implements CommandExecutor using os/exec.
type defaultCommandExecutor struct {
	Timeout time.Duration
}

// NewCommandExecutor returns an executor that kills commands after timeout.
// A non-positive timeout selects DefaultCommandTimeout.
func NewCommandExecutor(timeout time.Duration) CommandExecutor {
	return &defaultCommandExecutor{Timeout: timeout}
}

// Execute runs a system command with a timeout and returns the output.
func (e *defaultCommandExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(timeoutCtx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	hideWindow(cmd)

	if err := cmd.Run(); err != nil {
		ce := &CommandError{
			Command:  name,
			ExitCode: -1,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			ce.ExitCode = exitErr.ExitCode()
		}
		if timeoutCtx.Err() != nil {
			ce.Err = timeoutCtx.Err()
		}
		return "", ce
	}

	return strings.TrimSpace(stdout.String()), nil
}

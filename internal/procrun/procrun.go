// Package procrun runs a single external tool as a child process and reports
// its completion as an error value: nil for a clean exit, *ToolError for a
// non-zero exit or a spawn failure. It never retries.
package procrun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/specialistvlad/i18nrun/internal/ctxlog"
	"github.com/specialistvlad/i18nrun/internal/step"
)

// Command describes one tool invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory; empty means the runner's default.
	Dir string
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Runner spawns exactly one external process per call.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// waitDelay bounds how long Run waits for output pipes held open by
// grandchildren after the tool itself was killed.
const waitDelay = time.Second

// ToolError reports a failed tool invocation. ExitCode is -1 when the tool
// never started or was killed by a signal; Signal is set in the latter case.
type ToolError struct {
	Command  Command
	ExitCode int
	Signal   string
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	if e.Signal != "" {
		return fmt.Sprintf("%s terminated (%s)", e.Command.Name, e.Signal)
	}
	if e.ExitCode < 0 {
		return fmt.Sprintf("spawning %s: %v", e.Command.Name, e.Err)
	}
	msg := fmt.Sprintf("%s exited with code %d", e.Command.Name, e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Unwrap makes every ToolError match step.ErrExternalTool.
func (e *ToolError) Unwrap() []error {
	return []error{step.ErrExternalTool, e.Err}
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Dir is used when a Command does not set its own.
	Dir string
}

// NewExecRunner creates a runner rooted at dir.
func NewExecRunner(dir string) *ExecRunner {
	return &ExecRunner{Dir: dir}
}

// Run implements Runner. Cancelling ctx kills the process; there is no timeout.
func (r *ExecRunner) Run(ctx context.Context, c Command) error {
	logger := ctxlog.FromContext(ctx).With("tool", c.Name)

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.WaitDelay = waitDelay
	cmd.Dir = c.Dir
	if cmd.Dir == "" {
		cmd.Dir = r.Dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("Spawning tool.", "command", c.String(), "dir", cmd.Dir)
	start := time.Now()
	err := cmd.Run()
	logger.Debug("Tool exited.", "duration", time.Since(start), "stdout_bytes", stdout.Len())

	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		err = fmt.Errorf("%w: %w", ctxErr, err)
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return &ToolError{Command: c, ExitCode: -1, Err: err}
	}
	te := &ToolError{
		Command:  c,
		ExitCode: exitErr.ExitCode(),
		Stderr:   strings.TrimSpace(stderr.String()),
		Err:      err,
	}
	// A negative code means the process did not exit on its own.
	if te.ExitCode < 0 {
		te.Signal = exitErr.String()
	}
	return te
}

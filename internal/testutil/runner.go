package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/specialistvlad/i18nrun/internal/procrun"
)

// RecordingRunner is a procrun.Runner that records every command instead of
// spawning it. Handler, when set, decides each call's outcome.
type RecordingRunner struct {
	Handler func(ctx context.Context, cmd procrun.Command) error

	mu    sync.Mutex
	calls []procrun.Command
}

// Run implements procrun.Runner.
func (r *RecordingRunner) Run(ctx context.Context, cmd procrun.Command) error {
	r.mu.Lock()
	r.calls = append(r.calls, cmd)
	r.mu.Unlock()

	if r.Handler != nil {
		return r.Handler(ctx, cmd)
	}
	return nil
}

// Calls returns the recorded commands sorted by their rendered form, since
// fan-out completion order is unspecified.
func (r *RecordingRunner) Calls() []procrun.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]procrun.Command(nil), r.calls...)
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// CallCount returns how many commands were run.
func (r *RecordingRunner) CallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// FailWhen returns a Handler that fails with a tool error for every command
// that has one of items among its arguments.
func FailWhen(items ...string) func(context.Context, procrun.Command) error {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return func(_ context.Context, cmd procrun.Command) error {
		if len(cmd.Args) == 0 {
			return nil
		}
		for _, a := range cmd.Args {
			if set[a] {
				return &procrun.ToolError{
					Command:  cmd,
					ExitCode: 1,
					Stderr:   "simulated failure",
					Err:      errors.New("exit status 1"),
				}
			}
		}
		return nil
	}
}

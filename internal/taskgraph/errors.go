package taskgraph

import "fmt"

// RunError reports the step that halted a task.
type RunError struct {
	Task string
	Step string
	Err  error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("task '%s' failed at step '%s': %v", e.Task, e.Step, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

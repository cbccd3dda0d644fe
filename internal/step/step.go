package step

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Step is a single named stage of a task sequence.
type Step interface {
	Name() string
	Run(ctx context.Context) (Result, error)
}

// Result is the success side of a step outcome.
type Result struct {
	// Note is an informational message, e.g. why a step had nothing to do.
	Note string
	// Output is a cty object describing what the step produced. It may be cty.NilVal.
	Output cty.Value
}

// Noted returns a Result carrying only an informational note.
func Noted(note string) Result {
	return Result{Note: note, Output: cty.NilVal}
}

// Func adapts a plain function into a Step.
type Func struct {
	StepName string
	Fn       func(ctx context.Context) (Result, error)
}

// Name implements Step.
func (f *Func) Name() string { return f.StepName }

// Run implements Step.
func (f *Func) Run(ctx context.Context) (Result, error) { return f.Fn(ctx) }

package step

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks an unresolvable profile or missing required input.
	// It is fatal and raised before any external process runs.
	ErrConfiguration = errors.New("configuration error")
	// ErrNoWork marks an empty file set where work was expected.
	ErrNoWork = errors.New("no work")
	// ErrExternalTool marks a non-zero exit or a spawn failure of a tool.
	ErrExternalTool = errors.New("external tool failed")
	// ErrDependencyMissing marks an absent input file of a pipeline stage.
	ErrDependencyMissing = errors.New("dependency missing")
)

// Error is a classified step failure.
type Error struct {
	Kind error
	Step string
	Item string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Kind.Error()
	if e.Step != "" {
		msg = e.Step + ": " + msg
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Item != "" {
		msg += " (" + e.Item + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Fail builds a classified error for the named step.
func Fail(kind error, stepName, format string, args ...any) *Error {
	return &Error{Kind: kind, Step: stepName, Msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies err as kind for the named step.
func Wrap(kind error, stepName string, err error) *Error {
	return &Error{Kind: kind, Step: stepName, Err: err}
}

// Missing reports an absent input file.
func Missing(stepName, path string) *Error {
	return &Error{Kind: ErrDependencyMissing, Step: stepName, Msg: "input file not found", Item: path}
}

// Package fanout runs one asynchronous operation per input item and joins the
// results. Every item is attempted even when others fail; the combined result
// succeeds only if all items succeeded.
package fanout

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/i18nrun/internal/ctxlog"
	"golang.org/x/sync/errgroup"
)

// Op is the per-item operation.
type Op func(ctx context.Context, item string) error

// ItemFailure pairs a failed item with its error.
type ItemFailure struct {
	Item string
	Err  error
}

// JoinError reports every item that failed, in input order.
type JoinError struct {
	Total    int
	Failures []ItemFailure
}

func (e *JoinError) Error() string {
	if len(e.Failures) == 1 {
		f := e.Failures[0]
		return fmt.Sprintf("%s: %v", f.Item, f.Err)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d of %d items failed", len(e.Failures), e.Total)
	for _, f := range e.Failures {
		fmt.Fprintf(&b, "; %s: %v", f.Item, f.Err)
	}
	return b.String()
}

// Unwrap exposes the per-item errors to errors.Is and errors.As.
func (e *JoinError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}

type options struct {
	limit int
}

// Option configures RunAll.
type Option func(*options)

// WithLimit bounds the number of in-flight operations. n <= 0 means unbounded.
func WithLimit(n int) Option {
	return func(o *options) { o.limit = n }
}

// RunAll starts op for every item and waits for all of them. An empty input
// succeeds immediately. A failing item does not cancel its siblings.
func RunAll(ctx context.Context, items []string, op Op, opts ...Option) error {
	if len(items) == 0 {
		return nil
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	logger := ctxlog.FromContext(ctx)
	errs := make([]error, len(items))

	// errgroup.WithContext is not used: one failure must not cancel the rest.
	var g errgroup.Group
	if o.limit > 0 {
		g.SetLimit(o.limit)
	}

	for i, item := range items {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("panic: %v", r)
				}
				errs[i] = err
			}()
			return op(ctx, item)
		})
	}
	_ = g.Wait()

	var failures []ItemFailure
	for i, err := range errs {
		if err != nil {
			logger.Debug("Item failed.", "item", items[i], "error", err)
			failures = append(failures, ItemFailure{Item: items[i], Err: err})
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return &JoinError{Total: len(items), Failures: failures}
}

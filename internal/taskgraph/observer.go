package taskgraph

import (
	"context"

	"github.com/specialistvlad/i18nrun/internal/ctxlog"
	"github.com/specialistvlad/i18nrun/internal/step"
)

// Observer is notified around every step a task runs.
type Observer interface {
	StepStarted(ctx context.Context, task, stepName string)
	StepFinished(ctx context.Context, task, stepName string, res step.Result, err error)
}

// LogObserver writes step progress to the context logger.
type LogObserver struct{}

func (LogObserver) StepStarted(ctx context.Context, _, _ string) {
	ctxlog.FromContext(ctx).Info("▶️ Starting step")
}

func (LogObserver) StepFinished(ctx context.Context, _, _ string, res step.Result, err error) {
	logger := ctxlog.FromContext(ctx)
	if err != nil {
		logger.Error("❌ Step failed", "error", err)
		return
	}
	if res.Note != "" {
		logger.Info(res.Note)
	}
	if !res.Output.IsNull() {
		logger.Debug("Step Output:", "data", step.FormatOutput(res.Output))
	}
	logger.Info("✅ Finished step")
}

// Observers fans notifications out to several observers in order.
type Observers []Observer

func (o Observers) StepStarted(ctx context.Context, task, stepName string) {
	for _, obs := range o {
		obs.StepStarted(ctx, task, stepName)
	}
}

func (o Observers) StepFinished(ctx context.Context, task, stepName string, res step.Result, err error) {
	for _, obs := range o {
		obs.StepFinished(ctx, task, stepName, res, err)
	}
}

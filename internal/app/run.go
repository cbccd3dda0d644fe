package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/i18nrun/internal/ctxlog"
)

// Run executes the configured tasks in order, stopping at the first failure.
// With List set it prints the invocable tasks instead.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	defer a.Close()

	if a.cfg.List {
		for _, name := range a.graph.Tasks() {
			fmt.Fprintln(a.outW, name)
		}
		return nil
	}

	a.logger.Info("🚀 Starting run.", "tasks", a.cfg.Tasks, "workers", a.cfg.Workers)
	for _, task := range a.cfg.Tasks {
		if err := a.graph.Run(ctx, task); err != nil {
			return err
		}
	}
	a.logger.Info("🏁 Run finished.")
	return nil
}

package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext_FallsBackToDefault(t *testing.T) {
	t.Parallel()

	logger := FromContext(context.Background())
	require.NotNil(t, logger)
	assert.Same(t, slog.Default(), logger)
}

func TestWith_ScopesNestedLoggers(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := WithLogger(context.Background(), base)

	// --- Act ---
	ctx, _ = With(ctx, "task", "i18n")
	_, logger := With(ctx, "step", "extract")
	logger.Info("hello")

	// --- Assert ---
	out := buf.String()
	assert.Contains(t, out, "task=i18n")
	assert.Contains(t, out, "step=extract")
}

package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/specialistvlad/i18nrun/internal/step"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEmitter struct {
	mu     sync.Mutex
	names  []string
	events []Event
	closed bool
}

func (r *recordingEmitter) Emit(event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, event)
	r.events = append(r.events, payload.(Event))
}

func (r *recordingEmitter) Close() { r.closed = true }

func TestObserver_EmitsStepTransitions(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	em := &recordingEmitter{}
	o := NewObserver(em, "i18n", "run-1")
	o.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	// --- Act ---
	o.StepStarted(context.Background(), "i18n", "merge")
	o.StepFinished(context.Background(), "i18n", "merge", step.Noted("nothing to merge"), nil)
	o.StepFinished(context.Background(), "i18n", "compile", step.Result{}, errors.New("boom"))

	// --- Assert ---
	require.Len(t, em.events, 3)
	assert.Equal(t, []string{"i18n", "i18n", "i18n"}, em.names)
	assert.Equal(t, Event{RunID: "run-1", Task: "i18n", Step: "merge", Status: StatusStarted, Time: "2026-01-02T03:04:05Z"}, em.events[0])
	assert.Equal(t, StatusSucceeded, em.events[1].Status)
	assert.Equal(t, "nothing to merge", em.events[1].Note)
	assert.Equal(t, StatusFailed, em.events[2].Status)
	assert.Equal(t, "boom", em.events[2].Error)
}

func TestToWire_UsesJSONFieldNames(t *testing.T) {
	t.Parallel()

	got, err := toWire(Event{RunID: "r", Task: "t", Step: "s", Status: StatusStarted, Time: "now"})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"run_id": "r",
		"task":   "t",
		"step":   "s",
		"status": "started",
		"time":   "now",
	}, got)
}

func TestConnectError(t *testing.T) {
	t.Parallel()

	refused := errors.New("connection refused")

	testCases := []struct {
		name     string
		args     []any
		expected string
	}{
		{name: "no arguments", args: nil, expected: "connect_error without details"},
		{name: "nil argument", args: []any{nil}, expected: "connect_error without details"},
		{name: "error argument", args: []any{refused}, expected: "connection refused"},
		{name: "other argument", args: []any{map[string]any{"message": "bad namespace"}}, expected: "map[message:bad namespace]"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var err error
			require.NotPanics(t, func() { err = connectError(tc.args...) })
			require.Error(t, err)
			assert.EqualError(t, err, tc.expected)
		})
	}

	assert.ErrorIs(t, connectError(refused), refused)
}

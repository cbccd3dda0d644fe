package notify

import (
	"context"
	"time"

	"github.com/specialistvlad/i18nrun/internal/step"
)

// Status values carried by an Event.
const (
	StatusStarted   = "started"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Event is the payload emitted for every step transition.
type Event struct {
	RunID  string `json:"run_id"`
	Task   string `json:"task"`
	Step   string `json:"step"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Note   string `json:"note,omitempty"`
	Time   string `json:"time"`
}

// Emitter sends one named event.
type Emitter interface {
	Emit(event string, payload any)
	Close()
}

// Observer turns step transitions into events.
type Observer struct {
	emitter Emitter
	event   string
	runID   string
	now     func() time.Time
}

// NewObserver creates an observer emitting event for the run runID.
func NewObserver(e Emitter, event, runID string) *Observer {
	return &Observer{emitter: e, event: event, runID: runID, now: time.Now}
}

func (o *Observer) StepStarted(_ context.Context, task, stepName string) {
	o.emit(Event{Task: task, Step: stepName, Status: StatusStarted})
}

func (o *Observer) StepFinished(_ context.Context, task, stepName string, res step.Result, err error) {
	ev := Event{Task: task, Step: stepName, Status: StatusSucceeded, Note: res.Note}
	if err != nil {
		ev.Status = StatusFailed
		ev.Error = err.Error()
	}
	o.emit(ev)
}

func (o *Observer) emit(ev Event) {
	ev.RunID = o.runID
	ev.Time = o.now().UTC().Format(time.RFC3339)
	o.emitter.Emit(o.event, ev)
}

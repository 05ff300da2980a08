package render

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/publieople/termseq/pkg/seqlib"
)

// Event is one line of the JSON event stream.
type Event struct {
	Event string           `json:"event"`
	Gen   uint64           `json:"gen"`
	AtMs  int64            `json:"atMs"`
	Step  *seqlib.StepView `json:"step,omitempty"`
}

const (
	EVENT_STEP     = "step"
	EVENT_COMPLETE = "complete"
)

// Events writes one JSON object per line for every player callback.
// AtMs is measured from the moment the Events handler was created.
type Events struct {
	mu     sync.Mutex
	enc    *json.Encoder
	origin time.Time
	err    error
}

func NewEvents(w io.Writer) *Events {
	return &Events{enc: json.NewEncoder(w), origin: time.Now()}
}

func (e *Events) OnStep(ctx context.Context, gen uint64, st *seqlib.ScheduledStep) {
	e.write(Event{Event: EVENT_STEP, Gen: gen, Step: st.View()})
}

func (e *Events) OnComplete(gen uint64) {
	e.write(Event{Event: EVENT_COMPLETE, Gen: gen})
}

// Err returns the first write error, if any.
func (e *Events) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

func (e *Events) write(ev Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return
	}
	ev.AtMs = seqlib.Millis(time.Since(e.origin))
	e.err = e.enc.Encode(ev)
}

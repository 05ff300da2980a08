package player

import (
	"context"
	"time"

	"github.com/publieople/termseq/pkg/seqlib"
)

// Handler receives playback events for one scope.
type Handler interface {
	// OnStep is called when a step's visual effect should begin. ctx is
	// cancelled as soon as the scope is cancelled or superseded, so long
	// effects such as typing must watch it.
	OnStep(ctx context.Context, gen uint64, step *seqlib.ScheduledStep)
	// OnComplete is called once, at origin+TotalDuration, unless the
	// scope was cancelled first.
	OnComplete(gen uint64)
}

// HandlerFuncs adapts plain functions to Handler. Nil fields are skipped.
type HandlerFuncs struct {
	Step     func(ctx context.Context, gen uint64, step *seqlib.ScheduledStep)
	Complete func(gen uint64)
}

func (h HandlerFuncs) OnStep(ctx context.Context, gen uint64, step *seqlib.ScheduledStep) {
	if h.Step != nil {
		h.Step(ctx, gen, step)
	}
}

func (h HandlerFuncs) OnComplete(gen uint64) {
	if h.Complete != nil {
		h.Complete(gen)
	}
}

// completeIndex marks the completion event of a generation.
const completeIndex = -1

// event is a pending callback in the player heap.
type event struct {
	at  time.Time
	gen uint64
	// index is the step's flat index, or completeIndex.
	index int
	// seq breaks ties between events due at the same instant so they
	// fire in authored order, completion last.
	seq int
}

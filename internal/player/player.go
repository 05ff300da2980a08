package player

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/publieople/termseq/pkg/logger"
	"github.com/publieople/termseq/pkg/seqlib"
)

var (
	// ErrCancelled is the result of a scope cancelled by its owner.
	ErrCancelled = errors.New("sequence cancelled")
	// ErrSuperseded is the result of a scope replaced by a newer Play.
	ErrSuperseded = errors.New("sequence superseded")
	// ErrStopped is the result of a scope whose player context ended.
	ErrStopped = errors.New("player stopped")
	// ErrHandlerPanic is the result of a scope whose handler panicked.
	ErrHandlerPanic = errors.New("handler panicked")
)

// Player plays one timeline at a time. It is safe for concurrent use.
type Player struct {
	playCh   chan *Scope
	cancelCh chan cancelReq
	ctx      context.Context
	log      logger.Logger

	// playMu keeps generation order, the current swap and the hand-off
	// to run in step across concurrent Play calls.
	playMu  sync.Mutex
	gen     atomic.Uint64
	current atomic.Pointer[Scope]
}

type cancelReq struct {
	s   *Scope
	err error
}

// New creates and starts a Player. Its goroutine exits when ctx is
// cancelled; the scope active at that moment ends with ErrStopped.
func New(ctx context.Context, l logger.Logger) *Player {
	if l == nil {
		l = logger.NewNopLogger()
	}
	p := &Player{
		playCh:   make(chan *Scope),
		cancelCh: make(chan cancelReq, 16),
		ctx:      ctx,
		log:      l,
	}
	go p.run()
	return p
}

// Play starts a new generation playing tl with h. The previous scope, if
// any, is superseded: its context is cancelled right away and none of its
// pending events will fire.
func (p *Player) Play(tl *seqlib.Timeline, h Handler) *Scope {
	if tl == nil {
		tl = &seqlib.Timeline{}
	}
	if h == nil {
		h = HandlerFuncs{}
	}
	p.playMu.Lock()
	defer p.playMu.Unlock()

	sctx, cancel := context.WithCancel(p.ctx)
	s := &Scope{
		p:        p,
		gen:      p.gen.Add(1),
		origin:   time.Now(),
		ctx:      sctx,
		cancel:   cancel,
		done:     make(chan struct{}),
		handler:  h,
		timeline: tl,
	}
	if prev := p.current.Swap(s); prev != nil {
		prev.cancel()
	}
	select {
	case p.playCh <- s:
	case <-p.ctx.Done():
		s.finish(ErrStopped)
	}
	return s
}

// Current returns the most recently started scope, or nil.
func (p *Player) Current() *Scope {
	return p.current.Load()
}

// Generation returns the number of the latest generation, 0 before the
// first Play.
func (p *Player) Generation() uint64 {
	return p.gen.Load()
}

func (p *Player) requestCancel(s *Scope, err error) {
	select {
	case p.cancelCh <- cancelReq{s: s, err: err}:
	case <-p.ctx.Done():
		s.finish(ErrStopped)
	}
}

// run is the player goroutine. It owns the event heap and the active
// scope; everything else talks to it over channels.
func (p *Player) run() {
	h := &eventHeap{}
	var active *Scope

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
		if active != nil {
			active.finish(ErrStopped)
		}
	}()

	resetTimer := func() <-chan time.Time {
		if timer != nil {
			timer.Stop()
		}
		if h.Len() == 0 {
			return nil
		}
		dur := time.Until((*h)[0].at)
		if dur < 0 {
			dur = 0
		}
		timer = time.NewTimer(dur)
		return timer.C
	}

	timerCh := resetTimer()

	for {
		select {
		case <-p.ctx.Done():
			return

		case s := <-p.playCh:
			heapClear(h)
			if active != nil {
				p.log.Info("generation %d superseded by %d", active.gen, s.gen)
				active.finish(ErrSuperseded)
			}
			active = s
			p.arm(h, s)
			p.log.Info("generation %d started: %d steps over %s", s.gen, s.timelineLen(), s.total())
			timerCh = resetTimer()

		case req := <-p.cancelCh:
			if req.s == active {
				heapClear(h)
				active = nil
				p.log.Info("generation %d cancelled", req.s.gen)
				timerCh = resetTimer()
			}
			req.s.finish(req.err)

		case <-timerCh:
			now := time.Now()
			for h.Len() > 0 && !(*h)[0].at.After(now) {
				ev := heapPop(h)
				if active == nil || ev.gen != active.gen || active.ctx.Err() != nil {
					// Superseded or cancelled; the pending play or cancel
					// request clears the heap.
					continue
				}
				if ev.index == completeIndex {
					s := active
					active = nil
					if p.call(s, func() { s.handler.OnComplete(s.gen) }) {
						s.finish(nil)
					}
					continue
				}
				s := active
				step := s.step(ev.index)
				if step == nil {
					p.log.Warning("generation %d: no step at index %d", s.gen, ev.index)
					continue
				}
				if !p.call(s, func() { s.handler.OnStep(s.ctx, s.gen, step) }) {
					heapClear(h)
					active = nil
				}
			}
			timerCh = resetTimer()
		}
	}
}

// arm pushes one event per scheduled step and the completion event.
func (p *Player) arm(h *eventHeap, s *Scope) {
	tl := s.Timeline()
	flat := tl.Flatten()
	for _, st := range flat {
		heapPush(h, event{
			at:    s.origin.Add(st.StartDelay),
			gen:   s.gen,
			index: st.Index,
			seq:   st.Index,
		})
	}
	heapPush(h, event{
		at:    s.origin.Add(tl.TotalDuration),
		gen:   s.gen,
		index: completeIndex,
		seq:   len(flat),
	})
}

// call runs fn with panic recovery. On panic the scope is finished with
// ErrHandlerPanic and false is returned.
func (p *Player) call(s *Scope, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("PANIC [generation %d]: %v\n%s", s.gen, r, debug.Stack())
			s.finish(ErrHandlerPanic)
			ok = false
		}
	}()
	fn()
	return true
}

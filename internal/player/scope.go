package player

import (
	"context"
	"sync"
	"time"

	"github.com/publieople/termseq/pkg/seqlib"
)

// Scope is one playback generation. The host owns it and may cancel or
// rebind it at any time.
type Scope struct {
	p       *Player
	gen     uint64
	origin  time.Time
	ctx     context.Context
	cancel  context.CancelFunc
	handler Handler

	mu       sync.Mutex
	timeline *seqlib.Timeline
	err      error
	once     sync.Once
	done     chan struct{}
}

// Generation returns the scope's generation number.
func (s *Scope) Generation() uint64 { return s.gen }

// Origin returns the wall-clock instant step offsets are measured from.
func (s *Scope) Origin() time.Time { return s.origin }

// Done is closed when the scope has completed or was cancelled.
func (s *Scope) Done() <-chan struct{} { return s.done }

// Err returns nil while running or after a normal completion, and the
// reason otherwise.
func (s *Scope) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Wait blocks until the scope is done or ctx ends.
func (s *Scope) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel stops the scope. The context handed to OnStep is cancelled
// before Cancel returns and no pending event of this scope fires
// afterwards. Cancelling a finished scope is a no-op.
func (s *Scope) Cancel() {
	select {
	case <-s.done:
		return
	default:
	}
	s.cancel()
	s.p.requestCancel(s, ErrCancelled)
}

// Rebind re-substitutes the texts of the live timeline. Timings stay as
// first compiled; steps that have not fired yet show the new text.
func (s *Scope) Rebind(replacements map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeline = s.timeline.Rebind(replacements)
}

// Timeline returns the timeline currently bound to the scope.
func (s *Scope) Timeline() *seqlib.Timeline {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeline
}

func (s *Scope) step(index int) *seqlib.ScheduledStep {
	flat := s.Timeline().Flatten()
	if index < 0 || index >= len(flat) {
		return nil
	}
	return flat[index]
}

func (s *Scope) timelineLen() int {
	return s.Timeline().Len()
}

func (s *Scope) total() time.Duration {
	return s.Timeline().TotalDuration
}

func (s *Scope) finish(err error) {
	s.once.Do(func() {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		s.cancel()
		close(s.done)
	})
}

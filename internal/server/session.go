package server

import (
	"context"
	"sync"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/google/uuid"
	"github.com/publieople/termseq/internal/player"
	"github.com/publieople/termseq/internal/presets"
	"github.com/publieople/termseq/internal/script"
	"github.com/publieople/termseq/pkg/logger"
	"github.com/publieople/termseq/pkg/seqlib"
)

// Push notification methods.
const (
	NotifyStep     = "sequence.step"
	NotifyComplete = "sequence.complete"
)

// PlayParams is the input for sequence.play. Exactly one of Preset and
// Script must be set.
type PlayParams struct {
	Preset       string              `json:"preset,omitempty"`
	Params       presets.Params      `json:"params,omitempty"`
	Script       *script.Script      `json:"script,omitempty"`
	Options      *script.OptionsSpec `json:"options,omitempty"`
	Replacements map[string]string   `json:"replacements,omitempty"`
}

// PlayResult is the response for sequence.play.
type PlayResult struct {
	Session    string               `json:"session"`
	Generation uint64               `json:"generation"`
	Timeline   *seqlib.TimelineView `json:"timeline"`
}

// RebindParams is the input for sequence.rebind.
type RebindParams struct {
	Replacements map[string]string `json:"replacements"`
}

// GenerationResult answers sequence.rebind and sequence.cancel.
type GenerationResult struct {
	Generation uint64 `json:"generation"`
}

// StepNotification is pushed when a step begins.
type StepNotification struct {
	Session    string           `json:"session"`
	Generation uint64           `json:"generation"`
	Step       *seqlib.StepView `json:"step"`
}

// CompleteNotification is pushed once per generation when it completes.
type CompleteNotification struct {
	Session    string `json:"session"`
	Generation uint64 `json:"generation"`
}

// session is the state of one WebSocket connection.
type session struct {
	id     string
	rs     *RPCServer
	log    logger.Logger
	player *player.Player
	cancel context.CancelFunc

	mu  sync.Mutex
	srv *jrpc2.Server
}

func newSession(ctx context.Context, rs *RPCServer) *session {
	ctx, cancel := context.WithCancel(ctx)
	id := uuid.NewString()
	l := logger.WithPrefix(rs.log, "session "+id[:8])
	return &session{
		id:     id,
		rs:     rs,
		log:    l,
		player: player.New(ctx, l),
		cancel: cancel,
	}
}

func (s *session) bind(srv *jrpc2.Server) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.srv = srv
}

func (s *session) server() *jrpc2.Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.srv
}

// close stops the player; the active sequence ends with ErrStopped.
func (s *session) close() {
	s.cancel()
}

func (s *session) methods() handler.Map {
	m := s.rs.statelessMethods()
	m["sequence.play"] = handler.New(s.play)
	m["sequence.rebind"] = handler.New(s.rebind)
	m["sequence.cancel"] = handler.New(s.cancelSequence)
	return m
}

// play compiles the requested sequence and starts it, superseding the
// one already playing.
func (s *session) play(_ context.Context, p *PlayParams) (*PlayResult, error) {
	var tl *seqlib.Timeline
	switch {
	case p.Preset != "" && p.Script != nil:
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "preset and script are mutually exclusive"}
	case p.Preset != "":
		var err error
		tl, err = compilePreset(p.Preset, p.Params, p.Replacements)
		if err != nil {
			return nil, err
		}
	default:
		seq, err := sequenceFromScript(p.Script, p.Options)
		if err != nil {
			return nil, err
		}
		tl, err = seq.Compile(p.Replacements)
		if err != nil {
			return nil, invalidParams(err)
		}
	}
	scope := s.player.Play(tl, s)
	return &PlayResult{
		Session:    s.id,
		Generation: scope.Generation(),
		Timeline:   tl.View(),
	}, nil
}

// active returns the running scope or a -32002 error.
func (s *session) active() (*player.Scope, error) {
	scope := s.player.Current()
	if scope == nil {
		return nil, &jrpc2.Error{Code: codeNoActiveSequence, Message: "no active sequence"}
	}
	select {
	case <-scope.Done():
		return nil, &jrpc2.Error{Code: codeNoActiveSequence, Message: "no active sequence"}
	default:
	}
	return scope, nil
}

func (s *session) rebind(_ context.Context, p *RebindParams) (*GenerationResult, error) {
	scope, err := s.active()
	if err != nil {
		return nil, err
	}
	scope.Rebind(p.Replacements)
	return &GenerationResult{Generation: scope.Generation()}, nil
}

func (s *session) cancelSequence(_ context.Context) (*GenerationResult, error) {
	scope, err := s.active()
	if err != nil {
		return nil, err
	}
	scope.Cancel()
	return &GenerationResult{Generation: scope.Generation()}, nil
}

// OnStep pushes sequence.step. The player calls it from its own
// goroutine, so a slow client only delays this session.
func (s *session) OnStep(ctx context.Context, gen uint64, st *seqlib.ScheduledStep) {
	s.notify(ctx, NotifyStep, &StepNotification{Session: s.id, Generation: gen, Step: st.View()})
}

func (s *session) OnComplete(gen uint64) {
	s.notify(context.Background(), NotifyComplete, &CompleteNotification{Session: s.id, Generation: gen})
}

func (s *session) notify(ctx context.Context, method string, params any) {
	srv := s.server()
	if srv == nil {
		return
	}
	if err := srv.Notify(ctx, method, params); err != nil {
		s.log.Warning("push %s failed: %v", method, err)
	}
}

// sessionRegistry tracks open sessions so they can be closed on
// shutdown.
type sessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[string]*session)}
}

func (r *sessionRegistry) register(s *session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.id] = s
}

func (r *sessionRegistry) unregister(s *session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, s.id)
}

// Count returns the number of open sessions.
func (r *sessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *sessionRegistry) closeAll() {
	r.mu.RLock()
	open := make([]*session, 0, len(r.sessions))
	for _, s := range r.sessions {
		open = append(open, s)
	}
	r.mu.RUnlock()
	for _, s := range open {
		s.close()
	}
}

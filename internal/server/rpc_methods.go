package server

import (
	"context"
	"errors"
	"sync"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/publieople/termseq/internal/presets"
	"github.com/publieople/termseq/internal/script"
	"github.com/publieople/termseq/pkg/logger"
	"github.com/publieople/termseq/pkg/seqlib"
)

// Custom JSON-RPC error codes for sequence operations.
const (
	codePresetNotFound   = jrpc2.Code(-32001)
	codeNoActiveSequence = jrpc2.Code(-32002)
	codePushUnsupported  = jrpc2.Code(-32003)
	codeInvalidParams    = jrpc2.Code(-32602)
)

// RPCConfig holds configuration for the JSON-RPC endpoints.
type RPCConfig struct {
	Secret    string // Auth token (required -- empty means every request is rejected)
	Version   string
	Commit    string
	BuildType string
}

// RPCServer holds the method handlers and the HTTP bridge.
type RPCServer struct {
	bridge    jhttp.Bridge
	secret    string
	version   string
	commit    string
	buildType string
	log       logger.Logger
	sessions  *sessionRegistry
	closeOnce sync.Once
}

// VersionResult is the response for system.getVersion.
type VersionResult struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildType string `json:"buildType,omitempty"`
}

// CompileParams is the input for timeline.compile.
type CompileParams struct {
	Script       *script.Script      `json:"script"`
	Options      *script.OptionsSpec `json:"options,omitempty"`
	Replacements map[string]string   `json:"replacements,omitempty"`
}

// SubstituteParams is the input for timeline.substitute.
type SubstituteParams struct {
	Text         string            `json:"text"`
	Replacements map[string]string `json:"replacements,omitempty"`
}

// SubstituteResult is the response for timeline.substitute.
type SubstituteResult struct {
	Text string `json:"text"`
}

// PresetListResult is the response for preset.list.
type PresetListResult struct {
	Presets []*presets.Preset `json:"presets"`
}

// PresetParams is the input for preset.compile.
type PresetParams struct {
	Name         string            `json:"name"`
	Params       presets.Params    `json:"params,omitempty"`
	Replacements map[string]string `json:"replacements,omitempty"`
}

// PresetResult is the response for preset.compile.
type PresetResult struct {
	Name     string               `json:"name"`
	Timeline *seqlib.TimelineView `json:"timeline"`
}

// EmptyResult is a placeholder for methods that return no data.
type EmptyResult struct{}

// NewRPCServer creates the method handlers and the HTTP bridge.
func NewRPCServer(cfg *RPCConfig, l logger.Logger) *RPCServer {
	if l == nil {
		l = logger.NewNopLogger()
	}
	rs := &RPCServer{
		secret:    cfg.Secret,
		version:   cfg.Version,
		commit:    cfg.Commit,
		buildType: cfg.BuildType,
		log:       l,
		sessions:  newSessionRegistry(),
	}

	methods := rs.statelessMethods()
	// Sequence control needs a push-capable connection.
	for _, name := range []string{"sequence.play", "sequence.rebind", "sequence.cancel"} {
		methods[name] = handler.New(rs.pushUnsupported)
	}
	rs.bridge = jhttp.NewBridge(methods, nil)
	return rs
}

// statelessMethods returns the methods served on every transport.
func (rs *RPCServer) statelessMethods() handler.Map {
	return handler.Map{
		"system.getVersion":   handler.New(rs.systemGetVersion),
		"timeline.compile":    handler.New(rs.timelineCompile),
		"timeline.substitute": handler.New(rs.timelineSubstitute),
		"preset.list":         handler.New(rs.presetList),
		"preset.compile":      handler.New(rs.presetCompile),
	}
}

func (rs *RPCServer) systemGetVersion(_ context.Context) (*VersionResult, error) {
	return &VersionResult{
		Version:   rs.version,
		Commit:    rs.commit,
		BuildType: rs.buildType,
	}, nil
}

// timelineCompile validates and compiles an inline script.
func (rs *RPCServer) timelineCompile(_ context.Context, p *CompileParams) (*seqlib.TimelineView, error) {
	seq, err := sequenceFromScript(p.Script, p.Options)
	if err != nil {
		return nil, err
	}
	tl, err := seq.Compile(p.Replacements)
	if err != nil {
		return nil, invalidParams(err)
	}
	return tl.View(), nil
}

func (rs *RPCServer) timelineSubstitute(_ context.Context, p *SubstituteParams) (*SubstituteResult, error) {
	return &SubstituteResult{Text: seqlib.Substitute(p.Text, p.Replacements)}, nil
}

func (rs *RPCServer) presetList(_ context.Context) (*PresetListResult, error) {
	return &PresetListResult{Presets: presets.List()}, nil
}

func (rs *RPCServer) presetCompile(_ context.Context, p *PresetParams) (*PresetResult, error) {
	tl, err := compilePreset(p.Name, p.Params, p.Replacements)
	if err != nil {
		return nil, err
	}
	return &PresetResult{Name: p.Name, Timeline: tl.View()}, nil
}

func (rs *RPCServer) pushUnsupported(_ context.Context) (*EmptyResult, error) {
	return nil, &jrpc2.Error{Code: codePushUnsupported, Message: "method requires a WebSocket connection"}
}

func sequenceFromScript(s *script.Script, override *script.OptionsSpec) (*seqlib.Sequence, error) {
	if s == nil {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "script is required"}
	}
	if override != nil {
		c := *s
		c.Options = s.Options.Merge(override)
		s = &c
	}
	seq, err := s.Sequence()
	if err != nil {
		return nil, invalidParams(err)
	}
	return seq, nil
}

func compilePreset(name string, params presets.Params, repl map[string]string) (*seqlib.Timeline, error) {
	p, err := presets.Get(name)
	if err != nil {
		return nil, &jrpc2.Error{Code: codePresetNotFound, Message: err.Error()}
	}
	tl, err := p.Sequence(params).Compile(repl)
	if err != nil {
		return nil, invalidParams(err)
	}
	return tl, nil
}

func invalidParams(err error) error {
	var je *jrpc2.Error
	if errors.As(err, &je) {
		return je
	}
	return &jrpc2.Error{Code: codeInvalidParams, Message: err.Error()}
}

// Close shuts down the jrpc2 bridge and every open session. Safe to call
// multiple times.
func (rs *RPCServer) Close() {
	rs.closeOnce.Do(func() {
		rs.bridge.Close()
		rs.sessions.closeAll()
	})
}

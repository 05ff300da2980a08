// Package presets holds the built-in terminal sequences.
package presets

import (
	"errors"
	"fmt"
	"sort"

	"github.com/publieople/termseq/pkg/seqlib"
)

var ErrPresetNotFound = errors.New("preset not found")

// Params are the inputs a preset may use. Presets ignore the fields
// they do not need.
type Params struct {
	// Path is the route the routing preset changes to.
	Path string `json:"path,omitempty"`
	// Progress is the page load progress, 0 to 100.
	Progress int `json:"progress,omitempty"`
}

// Preset is a named sequence factory.
type Preset struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	// Rebindable lists the placeholders worth rebinding while the
	// sequence plays.
	Rebindable []string `json:"rebindable,omitempty"`

	build func(Params) *seqlib.Sequence
}

// Sequence builds the preset for params.
func (p *Preset) Sequence(params Params) *seqlib.Sequence {
	return p.build(params)
}

var registry = map[string]*Preset{}

func register(p *Preset) {
	registry[p.Name] = p
}

func init() {
	register(&Preset{
		Name:        "splash",
		Description: "boot script with a profile JSON block",
		build:       func(Params) *seqlib.Sequence { return Splash() },
	})
	register(&Preset{
		Name:        "routing",
		Description: "route change with build stages gated by load progress",
		Rebindable:  []string{"stage1", "stage2", "stage3"},
		build: func(p Params) *seqlib.Sequence {
			return Routing(p.Path, p.Progress)
		},
	})
	register(&Preset{
		Name:        "git",
		Description: "git status, commit and push",
		build:       func(Params) *seqlib.Sequence { return Git() },
	})
	register(&Preset{
		Name:        "npm",
		Description: "yarn install and dev server start",
		build:       func(Params) *seqlib.Sequence { return Npm() },
	})
}

// Get returns the preset called name.
func Get(name string) (*Preset, error) {
	p, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPresetNotFound, name)
	}
	return p, nil
}

// List returns every preset sorted by name.
func List() []*Preset {
	out := make([]*Preset, 0, len(registry))
	for _, p := range registry {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// opts builds compile options in milliseconds.
func opts(initial, speed, gap, hold, trailing int64) *seqlib.CompileOpts {
	return &seqlib.CompileOpts{
		InitialDelay:       seqlib.Ms(initial),
		DefaultTypingSpeed: seqlib.Ms(speed),
		InterStepGap:       seqlib.Ms(gap),
		InstantHoldTime:    seqlib.Ms(hold),
		TrailingBuffer:     seqlib.Ms(trailing),
	}
}

package seqlib

import "maps"

// Sequence bundles an authored step list with the timing options and
// default replacements it was written for.
type Sequence struct {
	Name        string
	Description string
	Steps       []*Step
	// Opts may be nil, meaning DefaultCompileOpts.
	Opts *CompileOpts
	// Replacements are defaults; values passed to Compile take priority.
	Replacements map[string]string
}

// Compile compiles the sequence with its own options. The sequence's
// default replacements are merged with extra, extra winning.
func (s *Sequence) Compile(extra map[string]string) (*Timeline, error) {
	return Compile(s.Steps, s.Options(extra))
}

// Options returns the effective compile options for extra replacements.
func (s *Sequence) Options(extra map[string]string) *CompileOpts {
	repl := maps.Clone(s.Replacements)
	if repl == nil {
		repl = make(map[string]string, len(extra))
	}
	maps.Copy(repl, extra)
	return s.Opts.WithReplacements(repl)
}

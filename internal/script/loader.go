package script

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/publieople/termseq/pkg/logger"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Format identifies how a script file is encoded.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatJS   Format = "js"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".js", ".cjs":
		return FormatJS, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// Loader reads scripts from a filesystem.
type Loader struct {
	fs  afero.Fs
	log logger.Logger
}

// NewLoader returns a Loader reading from fs. A nil fs means the host
// filesystem.
func NewLoader(fs afero.Fs, l logger.Logger) *Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &Loader{fs: fs, log: l}
}

// Load reads and validates the script at name. vars are handed to
// JavaScript scripts that export a function; they are ignored by the
// static formats.
func (l *Loader) Load(ctx context.Context, name string, vars map[string]string) (*Script, error) {
	format, err := FormatFromPath(name)
	if err != nil {
		return nil, err
	}
	var s *Script
	if format == FormatJS {
		s, err = l.runJS(ctx, name, vars)
	} else {
		var data []byte
		data, err = afero.ReadFile(l.fs, name)
		if err != nil {
			return nil, err
		}
		s, err = Decode(format, data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	l.log.Info("loaded %s (%s, %d top-level steps)", name, format, len(s.Steps))
	return s, nil
}

// Decode parses a static script. Unknown fields are rejected so typos
// in option names do not go unnoticed.
func Decode(format Format, data []byte) (*Script, error) {
	var s Script
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, err
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return &s, nil
}

// Encode writes s in the given static format.
func Encode(format Format, s *Script) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(s, "", "  ")
	case FormatYAML:
		return yaml.Marshal(s)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/publieople/termseq/common"
	"github.com/publieople/termseq/internal/presets"
	"github.com/publieople/termseq/internal/script"
	"github.com/publieople/termseq/pkg/logger"
	"github.com/publieople/termseq/pkg/seqlib"
	"github.com/spf13/afero"
	"github.com/urfave/cli"
)

var (
	errNoSource     = errors.New("a script file or --preset is required")
	errTwoSources   = errors.New("a script file and --preset are mutually exclusive")
	errBadSet       = errors.New("expected name=value")
	errUnknownMode  = fmt.Errorf("mode must be one of %s", strings.Join(modes, ", "))
	errMissingInput = errors.New("text argument is required")
)

var (
	initialDelay   int64
	typingSpeed    int64
	stepGap        int64
	instantHold    int64
	trailingBuffer int64

	presetName string
	routePath  string
	progress   int

	debug   bool
	logFile string
	noColor bool

	timingFlags = []cli.Flag{
		cli.Int64Flag{
			Name:        "initial-delay",
			Usage:       "delay before the first step in ms (-1 keeps the script value)",
			Value:       keepValue,
			Destination: &initialDelay,
		},
		cli.Int64Flag{
			Name:        "typing-speed",
			Usage:       "default per-character typing speed in ms (-1 keeps the script value)",
			Value:       keepValue,
			Destination: &typingSpeed,
		},
		cli.Int64Flag{
			Name:        "step-gap",
			Usage:       "gap between consecutive steps in ms (-1 keeps the script value)",
			Value:       keepValue,
			Destination: &stepGap,
		},
		cli.Int64Flag{
			Name:        "instant-hold",
			Usage:       "display time reserved by instant steps in ms (-1 keeps the script value)",
			Value:       keepValue,
			Destination: &instantHold,
		},
		cli.Int64Flag{
			Name:        "trailing-buffer",
			Usage:       "time added after the last step in ms (-1 keeps the script value)",
			Value:       keepValue,
			Destination: &trailingBuffer,
		},
	}

	setFlag = cli.StringSliceFlag{
		Name:  "set, s",
		Usage: "add a replacement, e.g. --set name=Ada (repeatable)",
	}

	sourceFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "preset, p",
			Usage:       "use a built-in preset instead of a script file",
			Destination: &presetName,
		},
		cli.StringFlag{
			Name:        "path",
			Usage:       "route path for the routing preset",
			Value:       "/",
			Destination: &routePath,
		},
		cli.IntFlag{
			Name:        "progress",
			Usage:       "load progress (0-100) for the routing preset",
			Destination: &progress,
		},
	}

	logFlags = []cli.Flag{
		cli.BoolFlag{
			Name:        "debug, d",
			Usage:       "write debug logs to stderr",
			EnvVar:      common.DebugEnv,
			Destination: &debug,
		},
		cli.StringFlag{
			Name:        "log-file",
			Usage:       "also write logs to this file",
			Destination: &logFile,
		},
	}
)

// withFlags concatenates flag groups for a command.
func withFlags(groups ...[]cli.Flag) []cli.Flag {
	var out []cli.Flag
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// parseSet turns name=value pairs into a replacement map. Later pairs win.
func parseSet(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	repl := make(map[string]string, len(pairs))
	var result *multierror.Error
	for _, kv := range pairs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			result = multierror.Append(result, fmt.Errorf("--set %q: %w", kv, errBadSet))
			continue
		}
		repl[strings.TrimPrefix(k, "$")] = v
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return repl, nil
}

// timingOverride returns the timing flags that were set, as an options
// override.
func timingOverride() *script.OptionsSpec {
	pick := func(v int64) *int64 {
		if v < 0 {
			return nil
		}
		return &v
	}
	return &script.OptionsSpec{
		InitialDelay:       pick(initialDelay),
		TypingSpeed:        pick(typingSpeed),
		StepDelay:          pick(stepGap),
		MessageDisplayTime: pick(instantHold),
		TrailingBuffer:     pick(trailingBuffer),
	}
}

// newLogger builds the command logger from --debug and --log-file. The
// returned logger must be closed.
func newLogger() (logger.Logger, error) {
	l := logger.New(debug, os.Stderr)
	if logFile == "" {
		return l, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	fl := &fileLogger{
		StandardLogger: logger.NewStandardLogger(log.New(f, "termseq: ", log.LstdFlags|log.Lmicroseconds)),
		f:              f,
	}
	return logger.NewMultiLogger(l, fl), nil
}

// fileLogger is a StandardLogger that owns its file.
type fileLogger struct {
	*logger.StandardLogger
	f *os.File
}

func (fl *fileLogger) Close() error {
	return fl.f.Close()
}

// loadSequence resolves the sequence named on the command line: a preset
// when --preset is set, otherwise the script file in the first argument.
// Timing flags are applied on top of the sequence options.
func loadSequence(ctx context.Context, c *cli.Context, l logger.Logger, repl map[string]string) (*seqlib.Sequence, error) {
	file := c.Args().First()
	override := timingOverride()
	switch {
	case presetName != "" && file != "":
		return nil, errTwoSources
	case presetName != "":
		p, err := presets.Get(presetName)
		if err != nil {
			return nil, err
		}
		seq := p.Sequence(presets.Params{Path: routePath, Progress: progress})
		seq.Opts = override.Apply(seq.Opts.Clone())
		return seq, nil
	case file == "":
		return nil, errNoSource
	}
	s, err := script.NewLoader(afero.NewOsFs(), l).Load(ctx, file, repl)
	if err != nil {
		return nil, err
	}
	s.Options = s.Options.Merge(override)
	return s.Sequence()
}

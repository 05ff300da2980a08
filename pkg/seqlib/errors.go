package seqlib

import (
	"errors"
	"fmt"
)

var (
	ErrNilStep        = errors.New("step is nil")
	ErrUnknownKind    = errors.New("unknown step kind")
	ErrNegativeSpeed  = errors.New("typing speed must not be negative")
	ErrNegativeDelay  = errors.New("explicit delay must not be negative")
	ErrNegativeOption = errors.New("timing option must not be negative")
	ErrCyclicStep     = errors.New("step is nested inside itself")
	// ErrDurationOverflow is returned when a time value or a computed
	// offset does not fit in a time.Duration.
	ErrDurationOverflow = errors.New("duration overflows the timeline range")
)

// StepError reports an invalid step together with its position in the
// authored tree, e.g. "[3].children[1]".
type StepError struct {
	Path string
	ID   string
	Err  error
}

func (e *StepError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("step %s (%s): %s", e.Path, e.ID, e.Err.Error())
	}
	return fmt.Sprintf("step %s: %s", e.Path, e.Err.Error())
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// OptionError reports an invalid compile option.
type OptionError struct {
	Name string
	Err  error
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("option %s: %s", e.Name, e.Err.Error())
}

func (e *OptionError) Unwrap() error {
	return e.Err
}

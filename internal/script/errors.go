package script

import "errors"

var (
	ErrDuplicateID       = errors.New("duplicate step id")
	ErrUnsupportedFormat = errors.New("unsupported script format")
	ErrNoSequence        = errors.New("script defines no sequence")
	ErrInvalidSequence   = errors.New("sequence value is not an object")
	ErrScriptInterrupted = errors.New("script interrupted")
)

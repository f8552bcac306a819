// Package editor provides the undo/redo editing engine for one shape
// collection: reified invertible commands, a strictly linear history, and a
// session facade tying collection, history, and import/export together.
package editor

import (
	"errors"
	"fmt"
)

// Edit error kinds. An *EditError wraps exactly one of these.
var (
	ErrInvariantViolation = errors.New("edit would violate a shape invariant")
	ErrUnknownShape       = errors.New("no shape with that id")
	ErrUnknownVariant     = errors.New("no scale variant at that index")
	ErrUnknownVertex      = errors.New("no vertex at that index")
	ErrUnknownPort        = errors.New("no port at that index")
	ErrDuplicateShapeID   = errors.New("a shape with that id already exists")
	ErrBadCommand         = errors.New("command arguments are invalid")
	ErrNothingToUndo      = errors.New("nothing to undo")
	ErrNothingToRedo      = errors.New("nothing to redo")
)

// EditError reports a rejected mutation. Commands validate before touching
// the collection, so an EditError always means the collection is unchanged.
type EditError struct {
	Err error
	// Command names the rejected command; empty for undo/redo exhaustion.
	Command string
	Detail  string
}

func (e *EditError) Error() string {
	msg := e.Err.Error()
	if e.Command != "" {
		msg = e.Command + ": " + msg
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *EditError) Unwrap() error { return e.Err }

func editErr(command string, kind error, format string, args ...any) *EditError {
	return &EditError{Err: kind, Command: command, Detail: fmt.Sprintf(format, args...)}
}

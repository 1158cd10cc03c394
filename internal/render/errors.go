package render

import (
	"errors"
	"fmt"
)

// ErrPanic marks a RenderFailure recovered from a panic while drawing
var ErrPanic = errors.New("panic while drawing")

// RenderFailure is the single error Render reports. It wraps the underlying
// error and names the drawing step that failed.
type RenderFailure struct {
	Op  string // drawing step, e.g. "draw", "output"
	Err error
}

func (e *RenderFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("render.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("render.%s: unknown error", e.Op)
}

func (e *RenderFailure) Unwrap() error {
	return e.Err
}

func newRenderFailure(op string, err error) *RenderFailure {
	return &RenderFailure{Op: op, Err: err}
}

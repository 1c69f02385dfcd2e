// Package autodiff implements tape-based reverse-mode automatic
// differentiation.
//
// A Context owns the recording state: a stack of sinks (a Tape when
// differentiating, a trace recorder when freezing) plus a suppression
// flag. Primitives execute their forward computation with recording
// suspended and then log exactly one record at the innermost sink, so a
// primitive composed of other primitives contributes a single node.
//
// The reverse pass walks a completed Tape backwards, accumulating
// gradients additively per tape slot, reducing broadcast gradients back
// to each parent's shape. Gradient rules are themselves expressed as
// primitive calls, so a reverse pass running under an outer recording
// scope is differentiable — that is what makes grad-of-grad work.
//
// A Context and everything recorded through it belong to one goroutine.
// Concurrent differentiation requires one Context per goroutine.
package autodiff

import (
	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

// GradFn maps the gradient at an operation's output to the gradients at
// its parents, in parent order. An entry may be nil when that parent is
// not differentiable; nil entries are dropped, never accumulated.
type GradFn func(outGrad *tensor.RawTensor) []*tensor.RawTensor

// Sink receives one record per executed primitive while a recording
// scope is open. Tape records for differentiation; the JIT layer records
// for replay.
type Sink interface {
	// Record logs one primitive execution. args are the raw call
	// arguments, parents the differentiable inputs (usually the same),
	// out the produced value, and grad the local gradient rule.
	Record(p *Primitive, args, parents []*tensor.RawTensor, out *tensor.RawTensor, grad GradFn)
}

// Context carries the recording state for one thread of execution.
type Context struct {
	backend    tensor.Backend
	sinks      []Sink
	suppressed bool
}

// NewContext creates a Context computing on the given backend.
func NewContext(backend tensor.Backend) *Context {
	return &Context{backend: backend}
}

// Backend returns the compute backend.
func (c *Context) Backend() tensor.Backend {
	return c.backend
}

// PushSink opens a recording scope. The innermost sink receives all
// records until it is popped; outer sinks see nothing meanwhile —
// nested scopes are never merged.
func (c *Context) PushSink(s Sink) {
	c.sinks = append(c.sinks, s)
}

// PopSink closes the innermost recording scope and returns its sink.
// Ownership of whatever the sink collected passes back to the caller.
func (c *Context) PopSink() Sink {
	if len(c.sinks) == 0 {
		return nil
	}
	s := c.sinks[len(c.sinks)-1]
	c.sinks = c.sinks[:len(c.sinks)-1]
	return s
}

// Recording reports whether a primitive call would be logged right now.
func (c *Context) Recording() bool {
	return !c.suppressed && len(c.sinks) > 0
}

// WithoutRecording runs fn with recording suppressed, restoring the
// previous state on every exit path. Open scopes stay open; they just
// receive nothing. Used by primitive composition and by JIT replay.
func (c *Context) WithoutRecording(fn func()) {
	prev := c.suppressed
	c.suppressed = true
	defer func() { c.suppressed = prev }()
	fn()
}

// ActiveSink returns the innermost open sink, or nil when no recording
// scope is open.
func (c *Context) ActiveSink() Sink {
	if len(c.sinks) == 0 {
		return nil
	}
	return c.sinks[len(c.sinks)-1]
}

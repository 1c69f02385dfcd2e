package autodiff

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

// Result is what a primitive's forward computation returns: the output
// value, the local gradient rule, and optionally an explicit parent
// list. When Parents is nil the call's own arguments are the parents;
// an explicit list is for fused primitives whose differentiable inputs
// differ from their positional arguments.
type Result struct {
	Output  *tensor.RawTensor
	Parents []*tensor.RawTensor
	Grad    GradFn
}

// Forward computes a primitive from concrete leaf values. It runs with
// recording suspended, so primitives it calls internally are not logged.
type Forward func(ctx *Context, args []*tensor.RawTensor) Result

// Primitive is a differentiable operation: invoking it computes a value
// and, if a recording scope is open, logs exactly one record.
type Primitive struct {
	name    string
	forward Forward
}

// New wraps a forward computation as a Primitive. A nameless or
// forward-less definition fails with a DefinitionError listing every
// violation.
func New(name string, forward Forward) (*Primitive, error) {
	var err error
	if name == "" {
		err = multierr.Append(err, errors.New("name must not be empty"))
	}
	if forward == nil {
		err = multierr.Append(err, errors.New("forward function must not be nil"))
	}
	if err != nil {
		return nil, &DefinitionError{Name: name, Err: err}
	}
	return &Primitive{name: name, forward: forward}, nil
}

// MustNew is New that panics on a malformed definition. Intended for
// package-level primitive variables.
func MustNew(name string, forward Forward) *Primitive {
	p, err := New(name, forward)
	if err != nil {
		panic(err)
	}
	return p
}

// Name returns the primitive's name.
func (p *Primitive) Name() string {
	return p.name
}

// Call executes the primitive. The forward computation runs with
// recording suspended and the previous state is restored on every exit
// path, a panicking forward included; only then, if recording is
// enabled and a scope is open, is the single resulting record appended.
// A forward that returns no output or no gradient rule panics with a
// DefinitionError.
func (p *Primitive) Call(ctx *Context, args ...*tensor.RawTensor) *tensor.RawTensor {
	// WithoutRecording restores the suppression flag on every exit
	// path; a panicking forward (the backend panics on shape errors)
	// must not leave the Context suppressed.
	var res Result
	ctx.WithoutRecording(func() {
		res = p.forward(ctx, args)
	})

	if res.Output == nil {
		panic(&DefinitionError{Name: p.name, Err: errors.New("forward returned no output")})
	}
	if res.Grad == nil {
		panic(&DefinitionError{Name: p.name, Err: errors.New("forward returned no gradient rule")})
	}

	parents := res.Parents
	if parents == nil {
		parents = args
	}
	if ctx.Recording() {
		ctx.ActiveSink().Record(p, args, parents, res.Output, res.Grad)
	}
	return res.Output
}

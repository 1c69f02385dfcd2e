package autodiff

import (
	"github.com/pkg/errors"

	"github.com/tapegrad-ml/tapegrad/internal/tensor"
	"github.com/tapegrad-ml/tapegrad/internal/tree"
)

// Func is a user function over possibly nested arguments. Its tensor
// work must go through primitives on the same Context so the forward
// pass lands on the tape.
type Func func(args ...any) any

// Holder is a leaf that carries its differentiable tensor indirectly,
// such as a named parameter. Frozen holders receive no gradient.
type Holder interface {
	Raw() *tensor.RawTensor
	Trainable() bool
}

// ParamSet is a parameter container (a model, a layer). An argument
// implementing ParamSet is expanded to its named trainable leaves
// before flattening, so its gradients come back as a map keyed by
// parameter name.
type ParamSet interface {
	TrainableParams() map[string]*tensor.RawTensor
}

// ValueAndGrad transforms fun into a function returning its value
// together with the gradients of that value with respect to every
// differentiable leaf of the arguments, reassembled into the argument
// structure. Leaves the forward pass never touched get a same-shaped
// zero gradient; non-differentiable leaves get a structural nil.
//
// With a single argument the gradient tree of that argument is returned
// directly; with several, a slice of per-argument gradient trees.
func (c *Context) ValueAndGrad(fun Func) func(args ...any) (any, any, error) {
	return func(args ...any) (value any, grads any, err error) {
		expanded := make([]any, len(args))
		for i, a := range args {
			if ps, ok := a.(ParamSet); ok {
				expanded[i] = ps.TrainableParams()
			} else {
				expanded[i] = a
			}
		}
		leaves, def, err := tree.Flatten(expanded)
		if err != nil {
			return nil, nil, errors.Wrap(err, "autodiff: flattening arguments")
		}

		tp := NewTape()
		c.PushSink(tp)
		defer func() {
			// The scope closes on every exit path; the tape stays ours.
			if c.ActiveSink() == Sink(tp) {
				c.PopSink()
			}
		}()
		out := fun(args...)
		c.PopSink()

		outT, ok := out.(*tensor.RawTensor)
		if !ok {
			return nil, nil, errors.Errorf("autodiff: function must return *tensor.RawTensor, got %T", out)
		}

		acc := backward(c, tp, outT)

		flat := make([]any, len(leaves))
		for i, leaf := range leaves {
			raw := diffTensor(leaf)
			if raw == nil {
				flat[i] = nil
				continue
			}
			if slot, ok := tp.slotOf(raw); ok {
				if g, ok := acc[slot]; ok {
					flat[i] = g
					continue
				}
			}
			flat[i] = tensor.ZerosLike(raw)
		}

		gtree, err := tree.Unflatten(flat, def)
		if err != nil {
			return nil, nil, errors.Wrap(err, "autodiff: rebuilding gradient structure")
		}
		perArg := gtree.([]any)
		if len(args) == 1 {
			return out, perArg[0], nil
		}
		return out, perArg, nil
	}
}

// Grad is ValueAndGrad without the value.
func (c *Context) Grad(fun Func) func(args ...any) (any, error) {
	vg := c.ValueAndGrad(fun)
	return func(args ...any) (any, error) {
		_, grads, err := vg(args...)
		return grads, err
	}
}

// diffTensor returns the differentiable tensor behind a flattened leaf,
// or nil when the leaf takes no gradient.
func diffTensor(leaf any) *tensor.RawTensor {
	switch v := leaf.(type) {
	case *tensor.RawTensor:
		return v
	case Holder:
		if v.Trainable() {
			return v.Raw()
		}
	}
	return nil
}

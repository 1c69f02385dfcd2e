package autodiff

import (
	"fmt"

	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

// The gradient-side reductions are primitives themselves, so a reverse
// pass running under an outer recording scope stays differentiable.

var accumulatePrim = MustNew("grad_accumulate", func(ctx *Context, args []*tensor.RawTensor) Result {
	out := ctx.backend.Add(args[0], args[1])
	return Result{
		Output: out,
		Grad: func(g *tensor.RawTensor) []*tensor.RawTensor {
			return []*tensor.RawTensor{g, g}
		},
	}
})

// accumulate adds two same-shaped gradient contributions.
func accumulate(ctx *Context, a, b *tensor.RawTensor) *tensor.RawTensor {
	return accumulatePrim.Call(ctx, a, b)
}

// sumAxis sums x along axis. Gradients flow back by broadcasting up to
// the pre-reduction shape.
func sumAxis(ctx *Context, x *tensor.RawTensor, axis int, keepDim bool) *tensor.RawTensor {
	p := MustNew(fmt.Sprintf("grad_sum_axis%d", axis), func(ctx *Context, args []*tensor.RawTensor) Result {
		src := args[0].Shape().Clone()
		out := ctx.backend.SumDim(args[0], axis, keepDim)
		return Result{
			Output: out,
			Grad: func(g *tensor.RawTensor) []*tensor.RawTensor {
				return []*tensor.RawTensor{expandTo(ctx, g, src)}
			},
		}
	})
	return p.Call(ctx, x)
}

// expandTo broadcasts x up to shape.
func expandTo(ctx *Context, x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	p := MustNew("grad_expand", func(ctx *Context, args []*tensor.RawTensor) Result {
		src := args[0].Shape().Clone()
		out := ctx.backend.Expand(args[0], shape)
		return Result{
			Output: out,
			Grad: func(g *tensor.RawTensor) []*tensor.RawTensor {
				return []*tensor.RawTensor{ReduceBroadcast(ctx, g, src)}
			},
		}
	})
	return p.Call(ctx, x)
}

// ReduceBroadcast reduces grad to target, exactly inverting NumPy-style
// broadcasting: leading axes are summed away until the ranks match, then
// every axis where the target has size 1 but grad does not is summed
// with the dimension kept. A grad already shaped like target is
// returned as is.
//
// Every gradient rule over broadcastable inputs must route its result
// through this reduction; skipping it yields silently wrong gradients
// whenever the forward pass broadcast.
func ReduceBroadcast(ctx *Context, grad *tensor.RawTensor, target tensor.Shape) *tensor.RawTensor {
	if grad.Shape().Equal(target) {
		return grad
	}
	for len(grad.Shape()) > len(target) {
		grad = sumAxis(ctx, grad, 0, false)
	}
	for i := range target {
		if target[i] == 1 && grad.Shape()[i] != 1 {
			grad = sumAxis(ctx, grad, i, true)
		}
	}
	return grad
}

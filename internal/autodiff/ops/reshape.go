package ops

import (
	"github.com/tapegrad-ml/tapegrad/internal/autodiff"
	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

// Reshape changes the shape of x; the element count must be preserved.
// The gradient reshapes back to the original shape.
func Reshape(ctx *autodiff.Context, x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	p := autodiff.MustNew("reshape", func(ctx *autodiff.Context, args []*tensor.RawTensor) autodiff.Result {
		src := args[0]
		orig := src.Shape().Clone()
		return autodiff.Result{
			Output: ctx.Backend().Reshape(src, shape),
			Grad: func(g *tensor.RawTensor) []*tensor.RawTensor {
				return []*tensor.RawTensor{Reshape(ctx, g, orig)}
			},
		}
	})
	return p.Call(ctx, x)
}

// Expand broadcasts x up to shape; expanded axes must have source size 1
// or be newly introduced leading axes. The gradient sums the expanded
// axes back down.
func Expand(ctx *autodiff.Context, x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	p := autodiff.MustNew("expand", func(ctx *autodiff.Context, args []*tensor.RawTensor) autodiff.Result {
		src := args[0]
		orig := src.Shape().Clone()
		return autodiff.Result{
			Output: ctx.Backend().Expand(src, shape),
			Grad: func(g *tensor.RawTensor) []*tensor.RawTensor {
				return []*tensor.RawTensor{autodiff.ReduceBroadcast(ctx, g, orig)}
			},
		}
	})
	return p.Call(ctx, x)
}

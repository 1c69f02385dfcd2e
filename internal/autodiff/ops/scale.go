package ops

import (
	"github.com/tapegrad-ml/tapegrad/internal/autodiff"
	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

// Scale returns x * s for a constant scalar s. The factor is part of the
// operation, not a differentiable input.
func Scale(ctx *autodiff.Context, x *tensor.RawTensor, s float64) *tensor.RawTensor {
	p := autodiff.MustNew("scale", func(ctx *autodiff.Context, args []*tensor.RawTensor) autodiff.Result {
		return autodiff.Result{
			Output: ctx.Backend().MulScalar(args[0], s),
			Grad: func(g *tensor.RawTensor) []*tensor.RawTensor {
				return []*tensor.RawTensor{Scale(ctx, g, s)}
			},
		}
	})
	return p.Call(ctx, x)
}

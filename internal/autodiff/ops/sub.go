package ops

import (
	"github.com/tapegrad-ml/tapegrad/internal/autodiff"
	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

// d(a-b)/da = 1, d(a-b)/db = -1.
var subPrim = autodiff.MustNew("sub", func(ctx *autodiff.Context, args []*tensor.RawTensor) autodiff.Result {
	a, b := args[0], args[1]
	return autodiff.Result{
		Output: ctx.Backend().Sub(a, b),
		Grad: func(g *tensor.RawTensor) []*tensor.RawTensor {
			return []*tensor.RawTensor{
				autodiff.ReduceBroadcast(ctx, g, a.Shape()),
				autodiff.ReduceBroadcast(ctx, Neg(ctx, g), b.Shape()),
			}
		},
	}
})

// Sub returns a - b element-wise with broadcasting.
func Sub(ctx *autodiff.Context, a, b *tensor.RawTensor) *tensor.RawTensor {
	return subPrim.Call(ctx, a, b)
}

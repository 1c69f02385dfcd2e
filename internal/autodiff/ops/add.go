package ops

import (
	"github.com/tapegrad-ml/tapegrad/internal/autodiff"
	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

// d(a+b)/da = 1, d(a+b)/db = 1.
var addPrim = autodiff.MustNew("add", func(ctx *autodiff.Context, args []*tensor.RawTensor) autodiff.Result {
	a, b := args[0], args[1]
	return autodiff.Result{
		Output: ctx.Backend().Add(a, b),
		Grad: func(g *tensor.RawTensor) []*tensor.RawTensor {
			return []*tensor.RawTensor{
				autodiff.ReduceBroadcast(ctx, g, a.Shape()),
				autodiff.ReduceBroadcast(ctx, g, b.Shape()),
			}
		},
	}
})

// Add returns a + b element-wise with broadcasting.
func Add(ctx *autodiff.Context, a, b *tensor.RawTensor) *tensor.RawTensor {
	return addPrim.Call(ctx, a, b)
}

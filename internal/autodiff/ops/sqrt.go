package ops

import (
	"github.com/tapegrad-ml/tapegrad/internal/autodiff"
	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

// d(√x)/dx = 1/(2√x); the rule reuses the forward output.
var sqrtPrim = autodiff.MustNew("sqrt", func(ctx *autodiff.Context, args []*tensor.RawTensor) autodiff.Result {
	out := ctx.Backend().Sqrt(args[0])
	return autodiff.Result{
		Output: out,
		Grad: func(g *tensor.RawTensor) []*tensor.RawTensor {
			return []*tensor.RawTensor{Div(ctx, Scale(ctx, g, 0.5), out)}
		},
	}
})

// Sqrt returns the square root element-wise.
func Sqrt(ctx *autodiff.Context, x *tensor.RawTensor) *tensor.RawTensor {
	return sqrtPrim.Call(ctx, x)
}

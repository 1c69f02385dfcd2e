package ops

import (
	"github.com/tapegrad-ml/tapegrad/internal/autodiff"
	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

// d(ln x)/dx = 1/x. Inputs must be positive.
var logPrim = autodiff.MustNew("log", func(ctx *autodiff.Context, args []*tensor.RawTensor) autodiff.Result {
	x := args[0]
	return autodiff.Result{
		Output: ctx.Backend().Log(x),
		Grad: func(g *tensor.RawTensor) []*tensor.RawTensor {
			return []*tensor.RawTensor{Div(ctx, g, x)}
		},
	}
})

// Log returns the natural logarithm element-wise.
func Log(ctx *autodiff.Context, x *tensor.RawTensor) *tensor.RawTensor {
	return logPrim.Call(ctx, x)
}

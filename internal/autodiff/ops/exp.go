package ops

import (
	"github.com/tapegrad-ml/tapegrad/internal/autodiff"
	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

// d(eˣ)/dx = eˣ; the rule reuses the forward output.
var expPrim = autodiff.MustNew("exp", func(ctx *autodiff.Context, args []*tensor.RawTensor) autodiff.Result {
	out := ctx.Backend().Exp(args[0])
	return autodiff.Result{
		Output: out,
		Grad: func(g *tensor.RawTensor) []*tensor.RawTensor {
			return []*tensor.RawTensor{Mul(ctx, g, out)}
		},
	}
})

// Exp returns eˣ element-wise.
func Exp(ctx *autodiff.Context, x *tensor.RawTensor) *tensor.RawTensor {
	return expPrim.Call(ctx, x)
}

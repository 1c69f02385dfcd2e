package ops

import (
	"github.com/tapegrad-ml/tapegrad/internal/autodiff"
	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

// d(a*b)/da = b, d(a*b)/db = a.
var mulPrim *autodiff.Primitive

// The gradient rule calls Mul, which reads mulPrim; assigning in init
// breaks the initialization cycle.
func init() {
	mulPrim = autodiff.MustNew("mul", func(ctx *autodiff.Context, args []*tensor.RawTensor) autodiff.Result {
		a, b := args[0], args[1]
		return autodiff.Result{
			Output: ctx.Backend().Mul(a, b),
			Grad: func(g *tensor.RawTensor) []*tensor.RawTensor {
				return []*tensor.RawTensor{
					autodiff.ReduceBroadcast(ctx, Mul(ctx, g, b), a.Shape()),
					autodiff.ReduceBroadcast(ctx, Mul(ctx, g, a), b.Shape()),
				}
			},
		}
	})
}

// Mul returns a * b element-wise with broadcasting.
func Mul(ctx *autodiff.Context, a, b *tensor.RawTensor) *tensor.RawTensor {
	return mulPrim.Call(ctx, a, b)
}

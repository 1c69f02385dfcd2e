package ops

import (
	"github.com/tapegrad-ml/tapegrad/internal/autodiff"
	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

// d(a/b)/da = 1/b, d(a/b)/db = -a/b².
var divPrim *autodiff.Primitive

// The gradient rule calls Div, which reads divPrim; assigning in init
// breaks the initialization cycle.
func init() {
	divPrim = autodiff.MustNew("div", func(ctx *autodiff.Context, args []*tensor.RawTensor) autodiff.Result {
		a, b := args[0], args[1]
		return autodiff.Result{
			Output: ctx.Backend().Div(a, b),
			Grad: func(g *tensor.RawTensor) []*tensor.RawTensor {
				gradA := Div(ctx, g, b)
				gradB := Neg(ctx, Div(ctx, Mul(ctx, g, a), Mul(ctx, b, b)))
				return []*tensor.RawTensor{
					autodiff.ReduceBroadcast(ctx, gradA, a.Shape()),
					autodiff.ReduceBroadcast(ctx, gradB, b.Shape()),
				}
			},
		}
	})
}

// Div returns a / b element-wise with broadcasting.
func Div(ctx *autodiff.Context, a, b *tensor.RawTensor) *tensor.RawTensor {
	return divPrim.Call(ctx, a, b)
}

package ops

import (
	"github.com/tapegrad-ml/tapegrad/internal/autodiff"
	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

var negPrim *autodiff.Primitive

// The gradient rule calls Neg, which reads negPrim; assigning in init
// breaks the initialization cycle.
func init() {
	negPrim = autodiff.MustNew("neg", func(ctx *autodiff.Context, args []*tensor.RawTensor) autodiff.Result {
		return autodiff.Result{
			Output: ctx.Backend().Neg(args[0]),
			Grad: func(g *tensor.RawTensor) []*tensor.RawTensor {
				return []*tensor.RawTensor{Neg(ctx, g)}
			},
		}
	})
}

// Neg returns -x.
func Neg(ctx *autodiff.Context, x *tensor.RawTensor) *tensor.RawTensor {
	return negPrim.Call(ctx, x)
}

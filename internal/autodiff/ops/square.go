package ops

import (
	"github.com/tapegrad-ml/tapegrad/internal/autodiff"
	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

// Square is a fused x*x: its forward composes a multiplication but the
// tape sees a single node with rule d(x²)/dx = 2x.
var squarePrim = autodiff.MustNew("square", func(ctx *autodiff.Context, args []*tensor.RawTensor) autodiff.Result {
	x := args[0]
	return autodiff.Result{
		Output: ctx.Backend().Mul(x, x),
		Grad: func(g *tensor.RawTensor) []*tensor.RawTensor {
			return []*tensor.RawTensor{Scale(ctx, Mul(ctx, g, x), 2)}
		},
	}
})

// Square returns x² element-wise.
func Square(ctx *autodiff.Context, x *tensor.RawTensor) *tensor.RawTensor {
	return squarePrim.Call(ctx, x)
}

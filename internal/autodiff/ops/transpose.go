package ops

import (
	"github.com/tapegrad-ml/tapegrad/internal/autodiff"
	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

// Transpose permutes the axes of x. With no axes the order is reversed.
// The gradient applies the inverse permutation.
func Transpose(ctx *autodiff.Context, x *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	p := autodiff.MustNew("transpose", func(ctx *autodiff.Context, args []*tensor.RawTensor) autodiff.Result {
		src := args[0]
		perm := axes
		if len(perm) == 0 {
			perm = make([]int, len(src.Shape()))
			for i := range perm {
				perm[i] = len(perm) - 1 - i
			}
		}
		inv := make([]int, len(perm))
		for i, ax := range perm {
			inv[ax] = i
		}
		return autodiff.Result{
			Output: ctx.Backend().Transpose(src, perm...),
			Grad: func(g *tensor.RawTensor) []*tensor.RawTensor {
				return []*tensor.RawTensor{Transpose(ctx, g, inv...)}
			},
		}
	})
	return p.Call(ctx, x)
}

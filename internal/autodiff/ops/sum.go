package ops

import (
	"github.com/tapegrad-ml/tapegrad/internal/autodiff"
	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

// The gradient of a full reduction broadcasts the scalar back up.
var sumPrim = autodiff.MustNew("sum", func(ctx *autodiff.Context, args []*tensor.RawTensor) autodiff.Result {
	x := args[0]
	return autodiff.Result{
		Output: ctx.Backend().Sum(x),
		Grad: func(g *tensor.RawTensor) []*tensor.RawTensor {
			return []*tensor.RawTensor{Expand(ctx, g, x.Shape())}
		},
	}
})

// Sum reduces x to a scalar.
func Sum(ctx *autodiff.Context, x *tensor.RawTensor) *tensor.RawTensor {
	return sumPrim.Call(ctx, x)
}

// SumDim sums along one dimension. With keepDim the reduced axis stays
// as size 1, otherwise it is dropped.
func SumDim(ctx *autodiff.Context, x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	p := autodiff.MustNew("sum_dim", func(ctx *autodiff.Context, args []*tensor.RawTensor) autodiff.Result {
		src := args[0]
		kept := src.Shape().Clone()
		kept[dim] = 1
		return autodiff.Result{
			Output: ctx.Backend().SumDim(src, dim, keepDim),
			Grad: func(g *tensor.RawTensor) []*tensor.RawTensor {
				if !keepDim {
					g = Reshape(ctx, g, kept)
				}
				return []*tensor.RawTensor{Expand(ctx, g, src.Shape())}
			},
		}
	})
	return p.Call(ctx, x)
}

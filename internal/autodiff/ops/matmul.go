package ops

import (
	"github.com/tapegrad-ml/tapegrad/internal/autodiff"
	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

// For c = a @ b: dc/da = g @ bᵀ, dc/db = aᵀ @ g.
var matmulPrim *autodiff.Primitive

// The gradient rule calls MatMul, which reads matmulPrim; assigning in
// init breaks the initialization cycle.
func init() {
	matmulPrim = autodiff.MustNew("matmul", func(ctx *autodiff.Context, args []*tensor.RawTensor) autodiff.Result {
		a, b := args[0], args[1]
		return autodiff.Result{
			Output: ctx.Backend().MatMul(a, b),
			Grad: func(g *tensor.RawTensor) []*tensor.RawTensor {
				return []*tensor.RawTensor{
					MatMul(ctx, g, Transpose(ctx, b)),
					MatMul(ctx, Transpose(ctx, a), g),
				}
			},
		}
	})
}

// MatMul multiplies two rank-2 tensors: [m,k] @ [k,n] -> [m,n].
func MatMul(ctx *autodiff.Context, a, b *tensor.RawTensor) *tensor.RawTensor {
	return matmulPrim.Call(ctx, a, b)
}

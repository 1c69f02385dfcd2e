// Copyright 2026 TapeGrad Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package ops exposes the built-in differentiable operations. Every
// function computes on the Context's backend and records one node when
// a differentiation or trace scope is open.
package ops

import (
	"github.com/tapegrad-ml/tapegrad/internal/autodiff"
	"github.com/tapegrad-ml/tapegrad/internal/autodiff/ops"
	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

// Add returns a + b element-wise with broadcasting.
func Add(ctx *autodiff.Context, a, b *tensor.RawTensor) *tensor.RawTensor {
	return ops.Add(ctx, a, b)
}

// Sub returns a - b element-wise with broadcasting.
func Sub(ctx *autodiff.Context, a, b *tensor.RawTensor) *tensor.RawTensor {
	return ops.Sub(ctx, a, b)
}

// Mul returns a * b element-wise with broadcasting.
func Mul(ctx *autodiff.Context, a, b *tensor.RawTensor) *tensor.RawTensor {
	return ops.Mul(ctx, a, b)
}

// Div returns a / b element-wise with broadcasting.
func Div(ctx *autodiff.Context, a, b *tensor.RawTensor) *tensor.RawTensor {
	return ops.Div(ctx, a, b)
}

// Neg returns -x.
func Neg(ctx *autodiff.Context, x *tensor.RawTensor) *tensor.RawTensor {
	return ops.Neg(ctx, x)
}

// Exp returns eˣ element-wise.
func Exp(ctx *autodiff.Context, x *tensor.RawTensor) *tensor.RawTensor {
	return ops.Exp(ctx, x)
}

// Log returns the natural logarithm element-wise.
func Log(ctx *autodiff.Context, x *tensor.RawTensor) *tensor.RawTensor {
	return ops.Log(ctx, x)
}

// Sqrt returns the square root element-wise.
func Sqrt(ctx *autodiff.Context, x *tensor.RawTensor) *tensor.RawTensor {
	return ops.Sqrt(ctx, x)
}

// Square returns x² element-wise.
func Square(ctx *autodiff.Context, x *tensor.RawTensor) *tensor.RawTensor {
	return ops.Square(ctx, x)
}

// Scale returns x * s for a constant scalar s.
func Scale(ctx *autodiff.Context, x *tensor.RawTensor, s float64) *tensor.RawTensor {
	return ops.Scale(ctx, x, s)
}

// MatMul multiplies two rank-2 tensors: [m,k] @ [k,n] -> [m,n].
func MatMul(ctx *autodiff.Context, a, b *tensor.RawTensor) *tensor.RawTensor {
	return ops.MatMul(ctx, a, b)
}

// Transpose permutes the axes of x; with no axes the order is reversed.
func Transpose(ctx *autodiff.Context, x *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	return ops.Transpose(ctx, x, axes...)
}

// Sum reduces x to a scalar.
func Sum(ctx *autodiff.Context, x *tensor.RawTensor) *tensor.RawTensor {
	return ops.Sum(ctx, x)
}

// SumDim sums along one dimension, keeping it as size 1 when keepDim.
func SumDim(ctx *autodiff.Context, x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return ops.SumDim(ctx, x, dim, keepDim)
}

// Reshape changes the shape of x, preserving the element count.
func Reshape(ctx *autodiff.Context, x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	return ops.Reshape(ctx, x, shape)
}

// Expand broadcasts x up to shape.
func Expand(ctx *autodiff.Context, x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	return ops.Expand(ctx, x, shape)
}

package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/blas/blas64"

	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

// MatMul multiplies two rank-2 tensors via gonum's BLAS GEMM:
// [m,k] @ [k,n] -> [m,n].
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	as, bs := a.Shape(), b.Shape()
	if len(as) != 2 || len(bs) != 2 {
		panic(fmt.Sprintf("matmul: rank-2 tensors required, got %v @ %v", as, bs))
	}
	if as[1] != bs[0] {
		panic(fmt.Sprintf("matmul: inner dimensions do not match: %v @ %v", as, bs))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("matmul: mixed dtypes %s and %s", a.DType(), b.DType()))
	}
	m, k, n := as[0], as[1], bs[1]
	out := tensor.Zeros(tensor.Shape{m, n}, a.DType())

	switch a.DType() {
	case tensor.Float64:
		blas64.Gemm(blas.NoTrans, blas.NoTrans, 1,
			blas64.General{Rows: m, Cols: k, Stride: k, Data: a.Float64()},
			blas64.General{Rows: k, Cols: n, Stride: n, Data: b.Float64()},
			0,
			blas64.General{Rows: m, Cols: n, Stride: n, Data: out.Float64()})
	case tensor.Float32:
		blas32.Gemm(blas.NoTrans, blas.NoTrans, 1,
			blas32.General{Rows: m, Cols: k, Stride: k, Data: a.Float32()},
			blas32.General{Rows: k, Cols: n, Stride: n, Data: b.Float32()},
			0,
			blas32.General{Rows: m, Cols: n, Stride: n, Data: out.Float32()})
	}
	return out
}

// Transpose permutes the dimensions of x. With no axes it reverses them.
func (cpu *CPUBackend) Transpose(x *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: got %d axes for rank-%d tensor", len(axes), ndim))
	}
	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim {
			panic(fmt.Sprintf("transpose: axis %d out of range for rank %d", ax, ndim))
		}
		if seen[ax] {
			panic(fmt.Sprintf("transpose: duplicate axis %d", ax))
		}
		seen[ax] = true
	}

	newShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		newShape[i] = shape[ax]
	}
	out := tensor.Zeros(newShape, x.DType())

	inStrides := shape.Strides()
	outStrides := newShape.Strides()
	for i := 0; i < x.NumElements(); i++ {
		// Decompose the source index, permute, recompose.
		rem := i
		dst := 0
		coords := make([]int, ndim)
		for d := 0; d < ndim; d++ {
			coords[d] = rem / inStrides[d]
			rem %= inStrides[d]
		}
		for d := 0; d < ndim; d++ {
			dst += coords[axes[d]] * outStrides[d]
		}
		out.SetAt(dst, x.At(i))
	}
	return out
}

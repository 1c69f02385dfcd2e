package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

// Sum reduces x to a scalar.
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	out := tensor.Zeros(tensor.Shape{}, x.DType())
	if x.DType() == tensor.Float64 {
		out.SetAt(0, floats.Sum(x.Float64()))
		return out
	}
	var sum float64
	for i := 0; i < x.NumElements(); i++ {
		sum += x.At(i)
	}
	out.SetAt(0, sum)
	return out
}

// SumDim sums x along dim. With keepDim the reduced dimension stays as
// size 1; otherwise it is dropped.
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("sumdim: dim %d out of range for shape %v", dim, shape))
	}

	kept := shape.Clone()
	kept[dim] = 1
	out := tensor.Zeros(kept, x.DType())

	inStrides := shape.Strides()
	outStrides := kept.Strides()
	for i := 0; i < x.NumElements(); i++ {
		rem := i
		dst := 0
		for d := range shape {
			coord := rem / inStrides[d]
			rem %= inStrides[d]
			if d != dim {
				dst += coord * outStrides[d]
			}
		}
		out.SetAt(dst, out.At(dst)+x.At(i))
	}

	if keepDim {
		return out
	}
	dropped := make(tensor.Shape, 0, len(shape)-1)
	for d, size := range shape {
		if d != dim {
			dropped = append(dropped, size)
		}
	}
	return out.WithShape(dropped)
}

// Expand broadcasts x up to shape. Every dimension of x must match the
// target or be 1; missing leading dimensions are added.
func (cpu *CPUBackend) Expand(x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	src := x.Shape()
	offset := len(shape) - len(src)
	if offset < 0 {
		panic(fmt.Sprintf("expand: cannot expand %v to lower-rank %v", src, shape))
	}
	for d := range src {
		if src[d] != shape[d+offset] && src[d] != 1 {
			panic(fmt.Sprintf("expand: %v is not expandable to %v", src, shape))
		}
	}
	out := tensor.Zeros(shape, x.DType())
	idx := newBroadcastIndexer(shape, src)
	for i := 0; i < out.NumElements(); i++ {
		out.SetAt(i, x.At(idx.source(i)))
	}
	return out
}

package cpu

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

type binaryKernel struct {
	scalar func(a, b float64) float64
	fast64 func(dst, a, b []float64) // same-shape float64 path
	fast32 func(dst, a, b []float32) // same-shape float32 path
}

var addKernel = binaryKernel{
	scalar: func(a, b float64) float64 { return a + b },
	fast64: func(dst, a, b []float64) { floats.AddTo(dst, a, b) },
	fast32: func(dst, a, b []float32) {
		for i := range dst {
			dst[i] = a[i] + b[i]
		}
	},
}

var subKernel = binaryKernel{
	scalar: func(a, b float64) float64 { return a - b },
	fast64: func(dst, a, b []float64) { floats.SubTo(dst, a, b) },
	fast32: func(dst, a, b []float32) {
		for i := range dst {
			dst[i] = a[i] - b[i]
		}
	},
}

var mulKernel = binaryKernel{
	scalar: func(a, b float64) float64 { return a * b },
	fast64: func(dst, a, b []float64) { floats.MulTo(dst, a, b) },
	fast32: func(dst, a, b []float32) {
		for i := range dst {
			dst[i] = a[i] * b[i]
		}
	},
}

var divKernel = binaryKernel{
	scalar: func(a, b float64) float64 { return a / b },
	fast64: func(dst, a, b []float64) { floats.DivTo(dst, a, b) },
	fast32: func(dst, a, b []float32) {
		for i := range dst {
			dst[i] = a[i] / b[i]
		}
	},
}

// binaryOp applies k to a and b under NumPy broadcasting rules.
func binaryOp(name string, a, b *tensor.RawTensor, k binaryKernel) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: mixed dtypes %s and %s", name, a.DType(), b.DType()))
	}
	outShape, stretched, err := tensor.Broadcast(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}
	out := tensor.Zeros(outShape, a.DType())

	if !stretched {
		if a.DType() == tensor.Float64 {
			k.fast64(out.Float64(), a.Float64(), b.Float64())
		} else {
			k.fast32(out.Float32(), a.Float32(), b.Float32())
		}
		return out
	}

	ai := newBroadcastIndexer(outShape, a.Shape())
	bi := newBroadcastIndexer(outShape, b.Shape())
	for i := 0; i < out.NumElements(); i++ {
		out.SetAt(i, k.scalar(a.At(ai.source(i)), b.At(bi.source(i))))
	}
	return out
}

// unaryOp applies fn element-wise.
func unaryOp(x *tensor.RawTensor, fn func(float64) float64) *tensor.RawTensor {
	out := tensor.ZerosLike(x)
	for i := 0; i < x.NumElements(); i++ {
		out.SetAt(i, fn(x.At(i)))
	}
	return out
}

// Exp returns e^x element-wise.
func (cpu *CPUBackend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return unaryOp(x, math.Exp)
}

// Log returns the natural logarithm element-wise. Inputs must be positive.
func (cpu *CPUBackend) Log(x *tensor.RawTensor) *tensor.RawTensor {
	return unaryOp(x, math.Log)
}

// Sqrt returns the square root element-wise.
func (cpu *CPUBackend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return unaryOp(x, math.Sqrt)
}

// broadcastIndexer maps flat indices of a broadcast output back to flat
// indices of a (possibly lower-rank, size-1-stretched) source tensor.
type broadcastIndexer struct {
	outStrides []int
	srcStrides []int // aligned to out rank; 0 where the source broadcasts
}

func newBroadcastIndexer(out, src tensor.Shape) broadcastIndexer {
	outStrides := out.Strides()
	srcReal := src.Strides()
	aligned := make([]int, len(out))
	offset := len(out) - len(src)
	for d := range out {
		sd := d - offset
		if sd < 0 || src[sd] == 1 {
			continue // missing or stretched dimension
		}
		aligned[d] = srcReal[sd]
	}
	return broadcastIndexer{outStrides: outStrides, srcStrides: aligned}
}

func (bi broadcastIndexer) source(flat int) int {
	src := 0
	for d, stride := range bi.outStrides {
		coord := flat / stride
		flat %= stride
		src += coord * bi.srcStrides[d]
	}
	return src
}

package tensor

import "fmt"

// RawTensor is the engine's leaf value: a shape, an element type, and a
// flat row-major data buffer.
//
// The differentiation engine identifies tensors by pointer, so two
// numerically equal tensors are distinct values unless they are the same
// object. Once a RawTensor has been consumed by a recorded operation its
// contents must not change; operations return new tensors.
type RawTensor struct {
	shape Shape
	dtype DataType
	f32   []float32
	f64   []float64
}

// NewRaw allocates a zero-filled tensor with the given shape and type.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	t := &RawTensor{shape: shape.Clone(), dtype: dtype}
	switch dtype {
	case Float32:
		t.f32 = make([]float32, shape.NumElements())
	case Float64:
		t.f64 = make([]float64, shape.NumElements())
	default:
		return nil, fmt.Errorf("unsupported dtype %s", dtype)
	}
	return t, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// DType returns the tensor's element type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// Float32 returns the data as []float32. Panics on dtype mismatch.
func (r *RawTensor) Float32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", r.dtype))
	}
	return r.f32
}

// Float64 returns the data as []float64. Panics on dtype mismatch.
func (r *RawTensor) Float64() []float64 {
	if r.dtype != Float64 {
		panic(fmt.Sprintf("tensor dtype is %s, not float64", r.dtype))
	}
	return r.f64
}

// At returns the element at the given flat index as a float64,
// regardless of the underlying element type.
func (r *RawTensor) At(i int) float64 {
	if r.dtype == Float32 {
		return float64(r.f32[i])
	}
	return r.f64[i]
}

// SetAt stores v at the given flat index, converting to the underlying
// element type.
func (r *RawTensor) SetAt(i int, v float64) {
	if r.dtype == Float32 {
		r.f32[i] = float32(v)
	} else {
		r.f64[i] = v
	}
}

// Clone returns a deep copy with its own buffer.
func (r *RawTensor) Clone() *RawTensor {
	out := &RawTensor{shape: r.shape.Clone(), dtype: r.dtype}
	if r.dtype == Float32 {
		out.f32 = append([]float32(nil), r.f32...)
	} else {
		out.f64 = append([]float64(nil), r.f64...)
	}
	return out
}

// WithShape returns a view-like copy carrying newShape over the same
// element count. The data buffer is copied; the receiver is untouched.
func (r *RawTensor) WithShape(newShape Shape) *RawTensor {
	if r.NumElements() != newShape.NumElements() {
		panic(fmt.Sprintf("reshape: %v -> %v changes element count", r.shape, newShape))
	}
	out := r.Clone()
	out.shape = newShape.Clone()
	return out
}

// String formats the tensor for debugging.
func (r *RawTensor) String() string {
	return fmt.Sprintf("RawTensor%s %s", r.shape, r.dtype)
}

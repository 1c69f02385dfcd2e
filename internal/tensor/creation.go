package tensor

import "fmt"

// Zeros creates a zero-filled tensor.
func Zeros(shape Shape, dtype DataType) *RawTensor {
	t, err := NewRaw(shape, dtype)
	if err != nil {
		panic(fmt.Sprintf("zeros: %v", err))
	}
	return t
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape, dtype DataType) *RawTensor {
	return Full(shape, dtype, 1)
}

// Full creates a tensor with every element set to v.
func Full(shape Shape, dtype DataType, v float64) *RawTensor {
	t := Zeros(shape, dtype)
	for i := 0; i < t.NumElements(); i++ {
		t.SetAt(i, v)
	}
	return t
}

// ZerosLike creates a zero-filled tensor with the shape and dtype of t.
func ZerosLike(t *RawTensor) *RawTensor {
	return Zeros(t.Shape(), t.DType())
}

// OnesLike creates a ones-filled tensor with the shape and dtype of t.
func OnesLike(t *RawTensor) *RawTensor {
	return Ones(t.Shape(), t.DType())
}

// FromFloat32 creates a float32 tensor from a flat slice. The slice is
// copied; its length must match the shape's element count.
func FromFloat32(data []float32, shape Shape) (*RawTensor, error) {
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}
	t, err := NewRaw(shape, Float32)
	if err != nil {
		return nil, err
	}
	copy(t.f32, data)
	return t, nil
}

// FromFloat64 creates a float64 tensor from a flat slice. The slice is
// copied; its length must match the shape's element count.
func FromFloat64(data []float64, shape Shape) (*RawTensor, error) {
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}
	t, err := NewRaw(shape, Float64)
	if err != nil {
		return nil, err
	}
	copy(t.f64, data)
	return t, nil
}

// Scalar creates a rank-0 tensor holding v.
func Scalar(dtype DataType, v float64) *RawTensor {
	t := Zeros(Shape{}, dtype)
	t.SetAt(0, v)
	return t
}

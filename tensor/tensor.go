// Copyright 2026 TapeGrad Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor exposes the array values the engine computes on: a
// shape, an element type, and a flat buffer. Tensors are treated as
// read-only once created; operations return fresh results.
//
// Example:
//
//	x, err := tensor.FromFloat64([]float64{1, 2, 3, 4}, tensor.Shape{2, 2})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(x.Shape()) // (2, 2)
package tensor

import (
	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

// RawTensor is a dense array value: shape, data type, flat buffer.
type RawTensor = tensor.RawTensor

// Shape is the dimension list of a tensor. An empty Shape is a scalar.
type Shape = tensor.Shape

// DataType identifies a tensor's element type.
type DataType = tensor.DataType

// Supported element types.
const (
	Float32 = tensor.Float32
	Float64 = tensor.Float64
)

// Backend is the compute contract tensors are operated on through.
type Backend = tensor.Backend

// NewRaw allocates a zero-filled tensor.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype)
}

// Zeros returns a zero-filled tensor.
func Zeros(shape Shape, dtype DataType) *RawTensor {
	return tensor.Zeros(shape, dtype)
}

// Ones returns a one-filled tensor.
func Ones(shape Shape, dtype DataType) *RawTensor {
	return tensor.Ones(shape, dtype)
}

// Full returns a tensor filled with v.
func Full(shape Shape, dtype DataType, v float64) *RawTensor {
	return tensor.Full(shape, dtype, v)
}

// ZerosLike returns a zero-filled tensor with x's shape and data type.
func ZerosLike(x *RawTensor) *RawTensor {
	return tensor.ZerosLike(x)
}

// OnesLike returns a one-filled tensor with x's shape and data type.
func OnesLike(x *RawTensor) *RawTensor {
	return tensor.OnesLike(x)
}

// FromFloat32 builds a Float32 tensor from data, which must match the
// shape's element count. The data is copied.
func FromFloat32(data []float32, shape Shape) (*RawTensor, error) {
	return tensor.FromFloat32(data, shape)
}

// FromFloat64 builds a Float64 tensor from data, which must match the
// shape's element count. The data is copied.
func FromFloat64(data []float64, shape Shape) (*RawTensor, error) {
	return tensor.FromFloat64(data, shape)
}

// Scalar returns a rank-0 tensor holding v.
func Scalar(dtype DataType, v float64) *RawTensor {
	return tensor.Scalar(dtype, v)
}

// Broadcast computes the NumPy-style broadcast of two shapes. The bool
// reports whether any stretching occurred.
func Broadcast(a, b Shape) (Shape, bool, error) {
	return tensor.Broadcast(a, b)
}

// Copyright 2026 TapeGrad Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff exposes tape-based reverse-mode differentiation.
//
// A Context owns the recording state; Grad and ValueAndGrad transform a
// function of nested arguments into one that also returns gradients,
// reassembled into the argument structure.
//
// Example:
//
//	ctx := autodiff.NewContext(cpu.New())
//	f := func(args ...any) any {
//	    x := args[0].(*tensor.RawTensor)
//	    return ops.Square(ctx, x)
//	}
//	grads, err := ctx.Grad(f)(x) // d(x²)/dx = 2x
package autodiff

import (
	"github.com/tapegrad-ml/tapegrad/internal/autodiff"
	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

// Context carries the recording state for one thread of execution. Use
// one Context per goroutine.
type Context = autodiff.Context

// NewContext creates a Context computing on the given backend.
func NewContext(backend tensor.Backend) *Context {
	return autodiff.NewContext(backend)
}

// Tape is the operation log a differentiation scope records into.
type Tape = autodiff.Tape

// NewTape creates an empty tape.
func NewTape() *Tape {
	return autodiff.NewTape()
}

// Sink receives one record per executed primitive while a recording
// scope is open.
type Sink = autodiff.Sink

// Primitive is a differentiable operation.
type Primitive = autodiff.Primitive

// Result is what a primitive's forward computation returns.
type Result = autodiff.Result

// Forward computes a primitive from concrete leaf values.
type Forward = autodiff.Forward

// GradFn maps an output gradient to the parent gradients.
type GradFn = autodiff.GradFn

// Func is a user function over possibly nested arguments.
type Func = autodiff.Func

// Holder is a leaf carrying its differentiable tensor indirectly.
type Holder = autodiff.Holder

// ParamSet is a parameter container expanded to named leaves before
// differentiation.
type ParamSet = autodiff.ParamSet

// DefinitionError reports a malformed primitive definition.
type DefinitionError = autodiff.DefinitionError

// New wraps a forward computation as a Primitive.
func New(name string, forward Forward) (*Primitive, error) {
	return autodiff.New(name, forward)
}

// MustNew is New that panics on a malformed definition.
func MustNew(name string, forward Forward) *Primitive {
	return autodiff.MustNew(name, forward)
}

// ReduceBroadcast sums grad back down to the target shape, inverting
// broadcasting. Used by gradient rules of broadcastable operations.
func ReduceBroadcast(ctx *Context, grad *tensor.RawTensor, target tensor.Shape) *tensor.RawTensor {
	return autodiff.ReduceBroadcast(ctx, grad, target)
}

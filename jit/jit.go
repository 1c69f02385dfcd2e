// Copyright 2026 TapeGrad Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package jit exposes trace-and-freeze compilation: the first call with
// a given argument structure traces the function into a frozen graph;
// structurally identical calls replay the graph without re-entering the
// function.
//
// Example:
//
//	fast := jit.Compile(ctx, func(args ...any) any {
//	    x := args[0].(*tensor.RawTensor)
//	    return ops.Mul(ctx, x, x)
//	})
//	y, err := fast(x)  // traces
//	y2, err := fast(x) // replays
package jit

import (
	"github.com/tapegrad-ml/tapegrad/internal/autodiff"
	"github.com/tapegrad-ml/tapegrad/internal/jit"
)

// Compile wraps fun in a trace-and-replay cache keyed on argument
// structure, tensor dtypes and shapes, and static argument values.
func Compile(ctx *autodiff.Context, fun autodiff.Func) func(args ...any) (any, error) {
	return jit.Compile(ctx, fun)
}

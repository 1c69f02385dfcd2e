// Copyright 2026 TapeGrad Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn exposes parameter containers and basic layers. A Module
// passed to ValueAndGrad yields gradients keyed by dotted parameter
// name, ready for an optimizer Step.
package nn

import (
	"math/rand"

	"github.com/tapegrad-ml/tapegrad/internal/autodiff"
	"github.com/tapegrad-ml/tapegrad/internal/nn"
	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

// Parameter is a named trainable tensor.
type Parameter = nn.Parameter

// Module is a named collection of parameters and nested modules.
type Module = nn.Module

// Linear is a fully connected layer: y = x @ W + b.
type Linear = nn.Linear

// NewParameter creates a trainable parameter wrapping value.
func NewParameter(name string, value *tensor.RawTensor) *Parameter {
	return nn.NewParameter(name, value)
}

// NewModule creates an empty module.
func NewModule() *Module {
	return nn.NewModule()
}

// NewLinear creates a Linear layer with Xavier-uniform weights and zero
// bias.
func NewLinear(in, out int, dtype tensor.DataType, rng *rand.Rand) *Linear {
	return nn.NewLinear(in, out, dtype, rng)
}

// MSELoss computes mean((pred - target)²) as a scalar.
func MSELoss(ctx *autodiff.Context, pred, target *tensor.RawTensor) *tensor.RawTensor {
	return nn.MSELoss(ctx, pred, target)
}

// SortedNames returns the dotted paths of a parameter map in sorted
// order.
func SortedNames[V any](params map[string]V) []string {
	return nn.SortedNames(params)
}

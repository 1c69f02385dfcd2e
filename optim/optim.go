// Copyright 2026 TapeGrad Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim exposes gradient-descent optimizers over named
// parameter maps.
//
// Example:
//
//	sgd := optim.NewSGD(model.NamedParams(), optim.SGDConfig{LR: 0.05}, backend)
//	grads, _ := ctx.Grad(loss)(model)
//	err := sgd.Step(grads.(map[string]*tensor.RawTensor))
package optim

import (
	"github.com/tapegrad-ml/tapegrad/internal/nn"
	"github.com/tapegrad-ml/tapegrad/internal/optim"
	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

// Optimizer applies gradient updates to the parameters it owns.
type Optimizer = optim.Optimizer

// SGD is stochastic gradient descent with optional momentum.
type SGD = optim.SGD

// SGDConfig configures SGD.
type SGDConfig = optim.SGDConfig

// NewSGD creates an SGD optimizer over the given named parameters.
func NewSGD(params map[string]*nn.Parameter, config SGDConfig, backend tensor.Backend) *SGD {
	return optim.NewSGD(params, config, backend)
}

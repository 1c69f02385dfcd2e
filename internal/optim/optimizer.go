// Package optim implements gradient-descent optimizers over named
// parameter maps. Gradients arrive keyed by dotted parameter name, the
// shape the engine produces when differentiating with respect to a
// parameter container.
package optim

import (
	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

// Optimizer applies gradient updates to the parameters it owns.
type Optimizer interface {
	// Step applies one update from a gradient map keyed by dotted
	// parameter name. Parameters without a gradient are skipped.
	Step(grads map[string]*tensor.RawTensor) error

	// LR returns the current learning rate.
	LR() float64

	// SetLR changes the learning rate, for scheduling.
	SetLR(lr float64)
}

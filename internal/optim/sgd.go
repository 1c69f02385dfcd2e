package optim

import (
	"github.com/pkg/errors"

	"github.com/tapegrad-ml/tapegrad/internal/nn"
	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

// SGD is stochastic gradient descent with optional momentum.
//
// Without momentum:
//
//	param -= lr * grad
//
// With momentum:
//
//	velocity = momentum * velocity + grad
//	param -= lr * velocity
type SGD struct {
	params     map[string]*nn.Parameter
	lr         float64
	momentum   float64
	velocities map[string]*tensor.RawTensor
	backend    tensor.Backend
}

// SGDConfig configures SGD.
type SGDConfig struct {
	LR       float64 // learning rate; defaults to 0.01
	Momentum float64 // momentum factor in [0, 1); 0 disables momentum
}

// NewSGD creates an SGD optimizer over the given named parameters,
// computing updates on backend.
func NewSGD(params map[string]*nn.Parameter, config SGDConfig, backend tensor.Backend) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}
	return &SGD{
		params:     params,
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make(map[string]*tensor.RawTensor),
		backend:    backend,
	}
}

// Step applies one gradient-descent update. Gradient shapes must match
// their parameters; a name in grads that no parameter carries is an
// error, a parameter with no gradient is skipped.
func (s *SGD) Step(grads map[string]*tensor.RawTensor) error {
	for name := range grads {
		if _, ok := s.params[name]; !ok {
			return errors.Errorf("optim: gradient for unknown parameter %q", name)
		}
	}
	for name, p := range s.params {
		grad := grads[name]
		if grad == nil {
			continue
		}
		if !grad.Shape().Equal(p.Raw().Shape()) {
			return errors.Errorf("optim: gradient shape %v does not match parameter %q shape %v",
				grad.Shape(), name, p.Raw().Shape())
		}
		if s.momentum != 0 {
			v, ok := s.velocities[name]
			if !ok {
				v = tensor.ZerosLike(p.Raw())
			}
			v = s.backend.Add(s.backend.MulScalar(v, s.momentum), grad)
			s.velocities[name] = v
			grad = v
		}
		p.Update(s.backend.Sub(p.Raw(), s.backend.MulScalar(grad, s.lr)))
	}
	return nil
}

// State returns a checkpointable snapshot of the momentum velocities,
// keyed by parameter name. The tensors are clones; mutating the
// snapshot does not affect the optimizer.
func (s *SGD) State() map[string]*tensor.RawTensor {
	state := make(map[string]*tensor.RawTensor, len(s.velocities))
	for name, v := range s.velocities {
		state[name] = v.Clone()
	}
	return state
}

// LoadState restores velocities from a State snapshot. A velocity for
// an unknown parameter or with a mismatched shape is an error, and the
// optimizer is left unchanged.
func (s *SGD) LoadState(state map[string]*tensor.RawTensor) error {
	loaded := make(map[string]*tensor.RawTensor, len(state))
	for name, v := range state {
		p, ok := s.params[name]
		if !ok {
			return errors.Errorf("optim: state for unknown parameter %q", name)
		}
		if !v.Shape().Equal(p.Raw().Shape()) {
			return errors.Errorf("optim: state shape %v does not match parameter %q shape %v",
				v.Shape(), name, p.Raw().Shape())
		}
		loaded[name] = v.Clone()
	}
	s.velocities = loaded
	return nil
}

// LR returns the current learning rate.
func (s *SGD) LR() float64 {
	return s.lr
}

// SetLR changes the learning rate.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}

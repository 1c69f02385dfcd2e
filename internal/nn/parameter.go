package nn

import (
	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

// Parameter is a named trainable tensor. It satisfies the engine's
// Holder contract (Raw, Trainable), so a Parameter can appear anywhere
// in a function's arguments and receive a gradient — unless frozen.
type Parameter struct {
	name      string
	value     *tensor.RawTensor
	trainable bool
}

// NewParameter creates a trainable parameter wrapping value.
func NewParameter(name string, value *tensor.RawTensor) *Parameter {
	return &Parameter{name: name, value: value, trainable: true}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Raw returns the underlying tensor.
func (p *Parameter) Raw() *tensor.RawTensor {
	return p.value
}

// Trainable reports whether the parameter takes gradients.
func (p *Parameter) Trainable() bool {
	return p.trainable
}

// Freeze excludes the parameter from differentiation.
func (p *Parameter) Freeze() {
	p.trainable = false
}

// Unfreeze re-enables differentiation for the parameter.
func (p *Parameter) Unfreeze() {
	p.trainable = true
}

// Update copies v's contents into the parameter buffer in place, so
// every holder of the tensor (including frozen trace graphs) sees the
// new values. Shapes and data types must match.
func (p *Parameter) Update(v *tensor.RawTensor) {
	if !p.value.Shape().Equal(v.Shape()) {
		panic("nn: parameter update shape mismatch for " + p.name)
	}
	if p.value.DType() != v.DType() {
		panic("nn: parameter update dtype mismatch for " + p.name)
	}
	switch p.value.DType() {
	case tensor.Float32:
		copy(p.value.Float32(), v.Float32())
	case tensor.Float64:
		copy(p.value.Float64(), v.Float64())
	}
}

package nn

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/tapegrad-ml/tapegrad/internal/autodiff"
	"github.com/tapegrad-ml/tapegrad/internal/autodiff/ops"
	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

// Linear is a fully connected layer: y = x @ W + b with x of shape
// [batch, in], W of shape [in, out] and b of shape [out] (broadcast over
// the batch dimension).
type Linear struct {
	*Module
	Weight *Parameter
	Bias   *Parameter
}

// NewLinear creates a Linear layer with Xavier-uniform weights and zero
// bias. The rng makes initialization reproducible; pass a seeded
// rand.Rand in tests.
func NewLinear(in, out int, dtype tensor.DataType, rng *rand.Rand) *Linear {
	bound := math.Sqrt(6.0 / float64(in+out))
	w, err := tensor.NewRaw(tensor.Shape{in, out}, dtype)
	if err != nil {
		panic(fmt.Sprintf("nn: linear weight: %v", err))
	}
	for i := 0; i < w.NumElements(); i++ {
		w.SetAt(i, (rng.Float64()*2-1)*bound)
	}
	b, err := tensor.NewRaw(tensor.Shape{out}, dtype)
	if err != nil {
		panic(fmt.Sprintf("nn: linear bias: %v", err))
	}

	l := &Linear{
		Module: NewModule(),
		Weight: NewParameter("weight", w),
		Bias:   NewParameter("bias", b),
	}
	l.RegisterParam("weight", l.Weight)
	l.RegisterParam("bias", l.Bias)
	return l
}

// Forward computes x @ W + b.
func (l *Linear) Forward(ctx *autodiff.Context, x *tensor.RawTensor) *tensor.RawTensor {
	return ops.Add(ctx, ops.MatMul(ctx, x, l.Weight.Raw()), l.Bias.Raw())
}

package optim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapegrad-ml/tapegrad/internal/backend/cpu"
	"github.com/tapegrad-ml/tapegrad/internal/nn"
	"github.com/tapegrad-ml/tapegrad/internal/optim"
	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

func params(t *testing.T, vals map[string][]float64) map[string]*nn.Parameter {
	t.Helper()
	out := make(map[string]*nn.Parameter, len(vals))
	for name, data := range vals {
		raw, err := tensor.FromFloat64(data, tensor.Shape{len(data)})
		require.NoError(t, err)
		out[name] = nn.NewParameter(name, raw)
	}
	return out
}

func grad(t *testing.T, data []float64) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.FromFloat64(data, tensor.Shape{len(data)})
	require.NoError(t, err)
	return raw
}

func TestSGD_Step(t *testing.T) {
	ps := params(t, map[string][]float64{"w": {1, 2}})
	sgd := optim.NewSGD(ps, optim.SGDConfig{LR: 0.1}, cpu.New())

	err := sgd.Step(map[string]*tensor.RawTensor{"w": grad(t, []float64{10, 20})})
	require.NoError(t, err)

	w := ps["w"].Raw()
	assert.InDelta(t, 0, w.At(0), 1e-12) // 1 - 0.1*10
	assert.InDelta(t, 0, w.At(1), 1e-12) // 2 - 0.1*20
}

func TestSGD_DefaultLR(t *testing.T) {
	sgd := optim.NewSGD(nil, optim.SGDConfig{}, cpu.New())
	assert.Equal(t, 0.01, sgd.LR())
	sgd.SetLR(0.5)
	assert.Equal(t, 0.5, sgd.LR())
}

func TestSGD_Momentum(t *testing.T) {
	ps := params(t, map[string][]float64{"w": {0}})
	sgd := optim.NewSGD(ps, optim.SGDConfig{LR: 1, Momentum: 0.5}, cpu.New())
	g := map[string]*tensor.RawTensor{"w": grad(t, []float64{1})}

	// v1 = 1, w = -1
	require.NoError(t, sgd.Step(g))
	assert.InDelta(t, -1, ps["w"].Raw().At(0), 1e-12)

	// v2 = 0.5*1 + 1 = 1.5, w = -2.5
	require.NoError(t, sgd.Step(g))
	assert.InDelta(t, -2.5, ps["w"].Raw().At(0), 1e-12)
}

func TestSGD_SkipsMissingGradients(t *testing.T) {
	ps := params(t, map[string][]float64{"w": {1}, "b": {2}})
	sgd := optim.NewSGD(ps, optim.SGDConfig{LR: 0.1}, cpu.New())

	err := sgd.Step(map[string]*tensor.RawTensor{"w": grad(t, []float64{1})})
	require.NoError(t, err)
	assert.InDelta(t, 0.9, ps["w"].Raw().At(0), 1e-12)
	assert.InDelta(t, 2.0, ps["b"].Raw().At(0), 1e-12)
}

func TestSGD_UnknownParameter(t *testing.T) {
	ps := params(t, map[string][]float64{"w": {1}})
	sgd := optim.NewSGD(ps, optim.SGDConfig{LR: 0.1}, cpu.New())
	err := sgd.Step(map[string]*tensor.RawTensor{"nope": grad(t, []float64{1})})
	assert.Error(t, err)
}

func TestSGD_ShapeMismatch(t *testing.T) {
	ps := params(t, map[string][]float64{"w": {1, 2}})
	sgd := optim.NewSGD(ps, optim.SGDConfig{LR: 0.1}, cpu.New())
	err := sgd.Step(map[string]*tensor.RawTensor{"w": grad(t, []float64{1})})
	assert.Error(t, err)
}

func TestSGD_StateRoundTrip(t *testing.T) {
	ps := params(t, map[string][]float64{"w": {0}})
	sgd := optim.NewSGD(ps, optim.SGDConfig{LR: 1, Momentum: 0.5}, cpu.New())
	g := map[string]*tensor.RawTensor{"w": grad(t, []float64{1})}
	require.NoError(t, sgd.Step(g))

	state := sgd.State()
	require.Contains(t, state, "w")
	assert.InDelta(t, 1, state["w"].At(0), 1e-12)

	// A fresh optimizer loaded from the snapshot continues the same
	// momentum trajectory: v = 0.5*1 + 1 = 1.5.
	ps2 := params(t, map[string][]float64{"w": {-1}})
	sgd2 := optim.NewSGD(ps2, optim.SGDConfig{LR: 1, Momentum: 0.5}, cpu.New())
	require.NoError(t, sgd2.LoadState(state))
	require.NoError(t, sgd2.Step(g))
	assert.InDelta(t, -2.5, ps2["w"].Raw().At(0), 1e-12)

	// The snapshot is detached from the optimizer's own buffers.
	state["w"].SetAt(0, 99)
	require.NoError(t, sgd.Step(g))
	assert.InDelta(t, -2.5, ps["w"].Raw().At(0), 1e-12)
}

func TestSGD_LoadStateValidates(t *testing.T) {
	ps := params(t, map[string][]float64{"w": {1, 2}})
	sgd := optim.NewSGD(ps, optim.SGDConfig{LR: 0.1, Momentum: 0.9}, cpu.New())

	err := sgd.LoadState(map[string]*tensor.RawTensor{"nope": grad(t, []float64{1})})
	assert.Error(t, err)

	err = sgd.LoadState(map[string]*tensor.RawTensor{"w": grad(t, []float64{1})})
	assert.Error(t, err)
}

func TestSGD_NilGradientSkipped(t *testing.T) {
	ps := params(t, map[string][]float64{"w": {3}})
	sgd := optim.NewSGD(ps, optim.SGDConfig{LR: 0.1}, cpu.New())
	err := sgd.Step(map[string]*tensor.RawTensor{"w": nil})
	require.NoError(t, err)
	assert.InDelta(t, 3, ps["w"].Raw().At(0), 1e-12)
}

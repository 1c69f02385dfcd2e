package nn_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapegrad-ml/tapegrad/internal/autodiff"
	"github.com/tapegrad-ml/tapegrad/internal/backend/cpu"
	"github.com/tapegrad-ml/tapegrad/internal/nn"
	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

func TestParameter_FreezeUnfreeze(t *testing.T) {
	p := nn.NewParameter("w", tensor.Ones(tensor.Shape{2}, tensor.Float64))
	assert.True(t, p.Trainable())
	p.Freeze()
	assert.False(t, p.Trainable())
	p.Unfreeze()
	assert.True(t, p.Trainable())
}

func TestParameter_UpdateInPlace(t *testing.T) {
	buf := tensor.Ones(tensor.Shape{2}, tensor.Float64)
	p := nn.NewParameter("w", buf)
	next, err := tensor.FromFloat64([]float64{5, 6}, tensor.Shape{2})
	require.NoError(t, err)

	p.Update(next)
	// The original buffer must see the new values; holders of the old
	// pointer stay valid.
	assert.Equal(t, 5.0, buf.At(0))
	assert.Equal(t, 6.0, buf.At(1))
	assert.Same(t, buf, p.Raw())
}

func TestParameter_UpdateShapeMismatchPanics(t *testing.T) {
	p := nn.NewParameter("w", tensor.Ones(tensor.Shape{2}, tensor.Float64))
	assert.Panics(t, func() {
		p.Update(tensor.Ones(tensor.Shape{3}, tensor.Float64))
	})
}

func TestModule_DottedNames(t *testing.T) {
	inner := nn.NewModule()
	inner.RegisterParam("weight", nn.NewParameter("weight", tensor.Ones(tensor.Shape{2}, tensor.Float64)))

	root := nn.NewModule()
	root.RegisterParam("bias", nn.NewParameter("bias", tensor.Ones(tensor.Shape{1}, tensor.Float64)))
	root.RegisterModule("layer1", inner)

	params := root.NamedParams()
	assert.Len(t, params, 2)
	assert.Contains(t, params, "bias")
	assert.Contains(t, params, "layer1.weight")

	p, ok := root.Param("layer1.weight")
	require.True(t, ok)
	assert.Equal(t, "weight", p.Name())

	_, ok = root.Param("layer2.weight")
	assert.False(t, ok)
}

func TestModule_TrainableParamsSkipsFrozen(t *testing.T) {
	m := nn.NewModule()
	w := nn.NewParameter("w", tensor.Ones(tensor.Shape{2}, tensor.Float64))
	b := nn.NewParameter("b", tensor.Ones(tensor.Shape{1}, tensor.Float64))
	b.Freeze()
	m.RegisterParam("w", w)
	m.RegisterParam("b", b)

	trainable := m.TrainableParams()
	assert.Len(t, trainable, 1)
	assert.Contains(t, trainable, "w")
}

func TestSortedNames(t *testing.T) {
	names := nn.SortedNames(map[string]int{"b": 1, "a": 2, "c": 3})
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

func TestLinear_Forward(t *testing.T) {
	ctx := autodiff.NewContext(cpu.New())
	l := nn.NewLinear(2, 1, tensor.Float64, rand.New(rand.NewSource(1)))

	// Pin the parameters to known values.
	w, err := tensor.FromFloat64([]float64{2, 3}, tensor.Shape{2, 1})
	require.NoError(t, err)
	l.Weight.Update(w)
	b, err := tensor.FromFloat64([]float64{10}, tensor.Shape{1})
	require.NoError(t, err)
	l.Bias.Update(b)

	x, err := tensor.FromFloat64([]float64{1, 1, 2, 4}, tensor.Shape{2, 2})
	require.NoError(t, err)
	out := l.Forward(ctx, x)

	require.True(t, out.Shape().Equal(tensor.Shape{2, 1}))
	assert.InDelta(t, 15, out.At(0), 1e-9) // 1*2 + 1*3 + 10
	assert.InDelta(t, 26, out.At(1), 1e-9) // 2*2 + 4*3 + 10
}

func TestLinear_GradientsFlowToParams(t *testing.T) {
	ctx := autodiff.NewContext(cpu.New())
	l := nn.NewLinear(1, 1, tensor.Float64, rand.New(rand.NewSource(2)))
	x, err := tensor.FromFloat64([]float64{1, 2, 3}, tensor.Shape{3, 1})
	require.NoError(t, err)
	y, err := tensor.FromFloat64([]float64{2, 4, 6}, tensor.Shape{3, 1})
	require.NoError(t, err)

	loss := func(args ...any) any {
		m := args[0].(*nn.Linear)
		return nn.MSELoss(ctx, m.Forward(ctx, x), y)
	}
	grads, err := ctx.Grad(loss)(l)
	require.NoError(t, err)

	gm, ok := grads.(map[string]*tensor.RawTensor)
	require.True(t, ok, "gradient type %T", grads)
	require.Contains(t, gm, "weight")
	require.Contains(t, gm, "bias")
	assert.True(t, gm["weight"].Shape().Equal(tensor.Shape{1, 1}))
	assert.True(t, gm["bias"].Shape().Equal(tensor.Shape{1}))
}

func TestMSELoss(t *testing.T) {
	ctx := autodiff.NewContext(cpu.New())
	pred, err := tensor.FromFloat64([]float64{1, 2}, tensor.Shape{2})
	require.NoError(t, err)
	target, err := tensor.FromFloat64([]float64{3, 2}, tensor.Shape{2})
	require.NoError(t, err)

	loss := nn.MSELoss(ctx, pred, target)
	require.Equal(t, 1, loss.NumElements())
	assert.InDelta(t, 2, loss.At(0), 1e-12) // ((−2)² + 0²) / 2
}

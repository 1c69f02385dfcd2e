package ops_test

import (
	"math"
	"testing"

	"github.com/tapegrad-ml/tapegrad/internal/autodiff"
	"github.com/tapegrad-ml/tapegrad/internal/autodiff/ops"
	"github.com/tapegrad-ml/tapegrad/internal/backend/cpu"
	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

func newCtx() *autodiff.Context {
	return autodiff.NewContext(cpu.New())
}

func vec(t *testing.T, data []float64, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	x, err := tensor.FromFloat64(data, shape)
	if err != nil {
		t.Fatal(err)
	}
	return x
}

// gradVec differentiates sum(f(x)) with respect to x.
func gradVec(t *testing.T, ctx *autodiff.Context, f func(*tensor.RawTensor) *tensor.RawTensor, x *tensor.RawTensor) *tensor.RawTensor {
	t.Helper()
	wrapped := func(args ...any) any {
		return ops.Sum(ctx, f(args[0].(*tensor.RawTensor)))
	}
	grads, err := ctx.Grad(wrapped)(x)
	if err != nil {
		t.Fatal(err)
	}
	return grads.(*tensor.RawTensor)
}

func wantClose(t *testing.T, got *tensor.RawTensor, want []float64, tol float64) {
	t.Helper()
	if got.NumElements() != len(want) {
		t.Fatalf("got %d elements, want %d", got.NumElements(), len(want))
	}
	for i, w := range want {
		if math.Abs(got.At(i)-w) > tol {
			t.Errorf("element %d = %v, want %v", i, got.At(i), w)
		}
	}
}

func TestAddGrad(t *testing.T) {
	ctx := newCtx()
	x := vec(t, []float64{1, 2}, tensor.Shape{2})
	y := vec(t, []float64{3, 4}, tensor.Shape{2})
	g := gradVec(t, ctx, func(a *tensor.RawTensor) *tensor.RawTensor {
		return ops.Add(ctx, a, y)
	}, x)
	wantClose(t, g, []float64{1, 1}, 1e-12)
}

func TestSubGrad(t *testing.T) {
	ctx := newCtx()
	x := vec(t, []float64{1, 2}, tensor.Shape{2})
	y := vec(t, []float64{3, 4}, tensor.Shape{2})
	g := gradVec(t, ctx, func(b *tensor.RawTensor) *tensor.RawTensor {
		return ops.Sub(ctx, x, b)
	}, y)
	wantClose(t, g, []float64{-1, -1}, 1e-12)
}

func TestMulGrad(t *testing.T) {
	ctx := newCtx()
	x := vec(t, []float64{2, 3}, tensor.Shape{2})
	y := vec(t, []float64{5, 7}, tensor.Shape{2})
	g := gradVec(t, ctx, func(a *tensor.RawTensor) *tensor.RawTensor {
		return ops.Mul(ctx, a, y)
	}, x)
	wantClose(t, g, []float64{5, 7}, 1e-12)
}

func TestDivGrad(t *testing.T) {
	ctx := newCtx()
	x := vec(t, []float64{6, 8}, tensor.Shape{2})
	y := vec(t, []float64{2, 4}, tensor.Shape{2})

	gx := gradVec(t, ctx, func(a *tensor.RawTensor) *tensor.RawTensor {
		return ops.Div(ctx, a, y)
	}, x)
	wantClose(t, gx, []float64{0.5, 0.25}, 1e-12)

	// d(x/y)/dy = -x/y²
	gy := gradVec(t, ctx, func(b *tensor.RawTensor) *tensor.RawTensor {
		return ops.Div(ctx, x, b)
	}, y)
	wantClose(t, gy, []float64{-1.5, -0.5}, 1e-12)
}

func TestNegGrad(t *testing.T) {
	ctx := newCtx()
	x := vec(t, []float64{1, -2}, tensor.Shape{2})
	g := gradVec(t, ctx, func(a *tensor.RawTensor) *tensor.RawTensor {
		return ops.Neg(ctx, a)
	}, x)
	wantClose(t, g, []float64{-1, -1}, 1e-12)
}

func TestExpGrad(t *testing.T) {
	ctx := newCtx()
	x := vec(t, []float64{0, 1}, tensor.Shape{2})
	g := gradVec(t, ctx, func(a *tensor.RawTensor) *tensor.RawTensor {
		return ops.Exp(ctx, a)
	}, x)
	wantClose(t, g, []float64{1, math.E}, 1e-12)
}

func TestLogGrad(t *testing.T) {
	ctx := newCtx()
	x := vec(t, []float64{1, 4}, tensor.Shape{2})
	g := gradVec(t, ctx, func(a *tensor.RawTensor) *tensor.RawTensor {
		return ops.Log(ctx, a)
	}, x)
	wantClose(t, g, []float64{1, 0.25}, 1e-12)
}

func TestSqrtGrad(t *testing.T) {
	ctx := newCtx()
	x := vec(t, []float64{4, 16}, tensor.Shape{2})
	g := gradVec(t, ctx, func(a *tensor.RawTensor) *tensor.RawTensor {
		return ops.Sqrt(ctx, a)
	}, x)
	wantClose(t, g, []float64{0.25, 0.125}, 1e-12)
}

func TestSquareGrad(t *testing.T) {
	ctx := newCtx()
	x := vec(t, []float64{3, -5}, tensor.Shape{2})
	g := gradVec(t, ctx, func(a *tensor.RawTensor) *tensor.RawTensor {
		return ops.Square(ctx, a)
	}, x)
	wantClose(t, g, []float64{6, -10}, 1e-12)
}

func TestScaleGrad(t *testing.T) {
	ctx := newCtx()
	x := vec(t, []float64{1, 2}, tensor.Shape{2})
	g := gradVec(t, ctx, func(a *tensor.RawTensor) *tensor.RawTensor {
		return ops.Scale(ctx, a, 2.5)
	}, x)
	wantClose(t, g, []float64{2.5, 2.5}, 1e-12)
}

func TestMatMulGrad(t *testing.T) {
	ctx := newCtx()
	a := vec(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := vec(t, []float64{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})

	// d(sum(a@b))/da = ones(2,2) @ bᵀ: every row is the row sums of b.
	ga := gradVec(t, ctx, func(x *tensor.RawTensor) *tensor.RawTensor {
		return ops.MatMul(ctx, x, b)
	}, a)
	wantClose(t, ga, []float64{15, 19, 23, 15, 19, 23}, 1e-9)

	// d(sum(a@b))/db = aᵀ @ ones(2,2): every column is the column sums of a.
	gb := gradVec(t, ctx, func(x *tensor.RawTensor) *tensor.RawTensor {
		return ops.MatMul(ctx, a, x)
	}, b)
	wantClose(t, gb, []float64{5, 5, 7, 7, 9, 9}, 1e-9)
}

func TestTransposeGrad(t *testing.T) {
	ctx := newCtx()
	x := vec(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	// sum is permutation-invariant, so the gradient is ones in x's shape.
	g := gradVec(t, ctx, func(a *tensor.RawTensor) *tensor.RawTensor {
		return ops.Transpose(ctx, a)
	}, x)
	if !g.Shape().Equal(tensor.Shape{2, 3}) {
		t.Fatalf("grad shape = %v, want (2, 3)", g.Shape())
	}
	wantClose(t, g, []float64{1, 1, 1, 1, 1, 1}, 1e-12)
}

func TestTranspose_Forward(t *testing.T) {
	ctx := newCtx()
	x := vec(t, []float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	out := ops.Transpose(ctx, x)
	wantClose(t, out, []float64{1, 3, 2, 4}, 1e-12)
}

func TestSumDimGrad(t *testing.T) {
	ctx := newCtx()
	x := vec(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	for _, keep := range []bool{true, false} {
		g := gradVec(t, ctx, func(a *tensor.RawTensor) *tensor.RawTensor {
			return ops.SumDim(ctx, a, 1, keep)
		}, x)
		if !g.Shape().Equal(tensor.Shape{2, 3}) {
			t.Fatalf("keep=%v: grad shape = %v, want (2, 3)", keep, g.Shape())
		}
		wantClose(t, g, []float64{1, 1, 1, 1, 1, 1}, 1e-12)
	}
}

func TestReshapeGrad(t *testing.T) {
	ctx := newCtx()
	x := vec(t, []float64{1, 2, 3, 4}, tensor.Shape{4})
	// Gradients flow back in the original shape.
	g := gradVec(t, ctx, func(a *tensor.RawTensor) *tensor.RawTensor {
		r := ops.Reshape(ctx, a, tensor.Shape{2, 2})
		return ops.Mul(ctx, r, r)
	}, x)
	if !g.Shape().Equal(tensor.Shape{4}) {
		t.Fatalf("grad shape = %v, want (4)", g.Shape())
	}
	wantClose(t, g, []float64{2, 4, 6, 8}, 1e-12)
}

func TestExpandGrad(t *testing.T) {
	ctx := newCtx()
	x := vec(t, []float64{1, 2, 3}, tensor.Shape{1, 3})
	g := gradVec(t, ctx, func(a *tensor.RawTensor) *tensor.RawTensor {
		return ops.Expand(ctx, a, tensor.Shape{4, 3})
	}, x)
	if !g.Shape().Equal(tensor.Shape{1, 3}) {
		t.Fatalf("grad shape = %v, want (1, 3)", g.Shape())
	}
	wantClose(t, g, []float64{4, 4, 4}, 1e-12)
}

func TestSelfInvokingGradRules(t *testing.T) {
	ctx := newCtx()
	// The mul, div, neg, and matmul rules each call their own op, so
	// their primitives are assigned in init rather than at declaration.
	// One expression through all four exercises every rule end to end.
	a := vec(t, []float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := vec(t, []float64{5, 6, 7, 8}, tensor.Shape{2, 2})
	g := gradVec(t, ctx, func(x *tensor.RawTensor) *tensor.RawTensor {
		mm := ops.MatMul(ctx, x, b)
		return ops.Div(ctx, ops.Neg(ctx, ops.Mul(ctx, mm, mm)), b)
	}, a)
	// f = sum(-(a@b)² / b); da = (-2(a@b)/b) @ bᵀ.
	wantClose(t, g, []float64{-82, -1678.0 / 15, -955.0 / 7, -186}, 1e-9)
}

func TestBroadcastBinaryGrads(t *testing.T) {
	ctx := newCtx()
	x := vec(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	row := vec(t, []float64{10, 20, 30}, tensor.Shape{3})

	// d(sum(x*row))/drow sums the x column under each row element.
	g := gradVec(t, ctx, func(r *tensor.RawTensor) *tensor.RawTensor {
		return ops.Mul(ctx, x, r)
	}, row)
	if !g.Shape().Equal(tensor.Shape{3}) {
		t.Fatalf("grad shape = %v, want (3)", g.Shape())
	}
	wantClose(t, g, []float64{5, 7, 9}, 1e-12)
}

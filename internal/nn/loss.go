package nn

import (
	"github.com/tapegrad-ml/tapegrad/internal/autodiff"
	"github.com/tapegrad-ml/tapegrad/internal/autodiff/ops"
	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

// MSELoss computes mean((pred - target)²) as a scalar.
func MSELoss(ctx *autodiff.Context, pred, target *tensor.RawTensor) *tensor.RawTensor {
	diff := ops.Sub(ctx, pred, target)
	total := ops.Sum(ctx, ops.Square(ctx, diff))
	return ops.Scale(ctx, total, 1.0/float64(pred.NumElements()))
}

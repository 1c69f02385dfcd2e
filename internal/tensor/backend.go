package tensor

// Backend is the compute contract the differentiation engine is written
// against. Implementations must never mutate their operands: every
// operation allocates and returns a fresh tensor.
//
// Binary element-wise operations follow NumPy broadcasting rules and
// panic on incompatible shapes; shape errors at this level are programming
// errors, not recoverable conditions.
type Backend interface {
	// Element-wise binary operations (broadcasting).
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Element-wise unary operations.
	Neg(x *RawTensor) *RawTensor
	Exp(x *RawTensor) *RawTensor
	Log(x *RawTensor) *RawTensor
	Sqrt(x *RawTensor) *RawTensor

	// MulScalar multiplies every element by s.
	MulScalar(x *RawTensor, s float64) *RawTensor

	// MatMul multiplies two rank-2 tensors: [m,k] @ [k,n] -> [m,n].
	MatMul(a, b *RawTensor) *RawTensor

	// Reductions.
	Sum(x *RawTensor) *RawTensor                           // scalar result
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor // sum along dim

	// Shape operations.
	Reshape(x *RawTensor, shape Shape) *RawTensor
	Expand(x *RawTensor, shape Shape) *RawTensor // broadcast up to shape
	Transpose(x *RawTensor, axes ...int) *RawTensor

	// Name identifies the backend.
	Name() string
}

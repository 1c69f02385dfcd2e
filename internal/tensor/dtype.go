// Package tensor provides the array values the differentiation engine
// operates on: a shape, an element type, and a flat data buffer.
//
// RawTensor is deliberately small. The engine treats every RawTensor as
// read-only once created; operations allocate fresh results instead of
// mutating operands, which is what keeps recorded tapes valid.
package tensor

import "fmt"

// DataType identifies the element type of a RawTensor at runtime.
type DataType int

// Supported element types. Differentiation is defined for floating
// point data only.
const (
	Float32 DataType = iota
	Float64
)

// Size returns the byte size of one element.
func (dt DataType) Size() int {
	switch dt {
	case Float32:
		return 4
	case Float64:
		return 8
	default:
		panic(fmt.Sprintf("unknown data type %d", int(dt)))
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}

package autodiff

import (
	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

// node is one recorded operation: the tape slot of its output, the
// slots and shapes of its parents, and the local gradient rule.
type node struct {
	out        int
	parents    []int
	parentRefs []*tensor.RawTensor
	grad       GradFn
}

// Tape is an append-only log of the operations executed during one
// recording scope. It implements Sink.
//
// Values touched by the tape are interned to dense integer slots at
// record time; the reverse pass and all gradient bookkeeping work on
// slots, never on object identity across scopes. Slots are local to one
// Tape — nested tapes have independent slot spaces.
type Tape struct {
	nodes []node
	slots map[*tensor.RawTensor]int
}

// NewTape creates an empty tape.
func NewTape() *Tape {
	return &Tape{
		nodes: make([]node, 0, 64),
		slots: make(map[*tensor.RawTensor]int),
	}
}

// Len returns the number of recorded operations.
func (t *Tape) Len() int {
	return len(t.nodes)
}

// Record appends one operation. The raw call args are irrelevant for
// differentiation; only parents, output, and the gradient rule are kept.
func (t *Tape) Record(_ *Primitive, _, parents []*tensor.RawTensor, out *tensor.RawTensor, grad GradFn) {
	n := node{
		out:        t.intern(out),
		parents:    make([]int, len(parents)),
		parentRefs: parents,
		grad:       grad,
	}
	for i, p := range parents {
		n.parents[i] = t.intern(p)
	}
	t.nodes = append(t.nodes, n)
}

// intern returns the slot for v, assigning the next free one on first
// sight.
func (t *Tape) intern(v *tensor.RawTensor) int {
	if slot, ok := t.slots[v]; ok {
		return slot
	}
	slot := len(t.slots)
	t.slots[v] = slot
	return slot
}

// slotOf looks up v's slot without assigning one.
func (t *Tape) slotOf(v *tensor.RawTensor) (int, bool) {
	slot, ok := t.slots[v]
	return slot, ok
}

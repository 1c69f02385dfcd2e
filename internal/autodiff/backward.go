package autodiff

import (
	"github.com/pkg/errors"

	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

// backward runs the reverse pass over a completed tape.
//
// The accumulator is seeded with ones at the output's slot (the output
// is interned here, so a function that returns an argument untouched
// still sees its seed). Nodes are visited in exact reverse of execution
// order: every node runs after all consumers of its output and before
// the producers of its inputs, which together with additive
// accumulation handles fan-out. Nodes whose output never received a
// gradient are dead branches and are skipped.
//
// The returned map is keyed by tape slot; absence of a slot means no
// contribution reached it, not zero.
func backward(ctx *Context, tp *Tape, output *tensor.RawTensor) map[int]*tensor.RawTensor {
	grads := make(map[int]*tensor.RawTensor, len(tp.nodes))
	grads[tp.intern(output)] = tensor.OnesLike(output)

	for i := len(tp.nodes) - 1; i >= 0; i-- {
		n := tp.nodes[i]
		g, ok := grads[n.out]
		if !ok {
			continue
		}

		parentGrads := n.grad(g)
		if len(parentGrads) != len(n.parents) {
			panic(&DefinitionError{Err: errors.Errorf(
				"gradient rule returned %d gradients for %d parents",
				len(parentGrads), len(n.parents))})
		}

		for j, pg := range parentGrads {
			if pg == nil {
				continue
			}
			pg = ReduceBroadcast(ctx, pg, n.parentRefs[j].Shape())
			slot := n.parents[j]
			if existing, ok := grads[slot]; ok {
				grads[slot] = accumulate(ctx, existing, pg)
			} else {
				grads[slot] = pg
			}
		}
	}
	return grads
}

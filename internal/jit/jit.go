// Package jit provides trace-and-freeze compilation: the first call with
// a given argument structure runs the function once under a trace
// recorder, freezing the executed primitives into a flat graph over
// integer value ids; later structurally-identical calls replay the graph
// without re-entering the function.
//
// The cache key covers the argument nesting, each tensor leaf's data
// type and shape, and the concrete values of non-tensor leaves, so a
// shape change or a new static value retraces instead of replaying a
// stale graph. Tensors the trace encountered that were not bound as
// inputs are frozen as constants with their traced values.
//
// Replay runs with recording suppressed; a compiled function is opaque
// to differentiation.
package jit

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/tapegrad-ml/tapegrad/internal/autodiff"
	"github.com/tapegrad-ml/tapegrad/internal/tensor"
	"github.com/tapegrad-ml/tapegrad/internal/tree"
)

// frozenOp is one traced primitive call: the ids of its argument values
// and the id its output binds.
type frozenOp struct {
	prim *autodiff.Primitive
	args []int
	out  int
}

// outLeaf is one leaf of the traced output: a graph value when the leaf
// was produced (or bound) during the trace, a literal otherwise.
type outLeaf struct {
	id  int // valid when >= 0
	val any
}

// graph is a frozen trace for one cache key.
type graph struct {
	ops       []frozenOp
	numIDs    int
	consts    map[int]*tensor.RawTensor
	inputIDs  []int // per flattened argument leaf; -1 for static leaves
	outDef    *tree.Def
	outLeaves []outLeaf
}

// recorder collects frozen ops during a trace. It implements
// autodiff.Sink.
type recorder struct {
	ids    map[*tensor.RawTensor]int
	next   int
	ops    []frozenOp
	consts map[int]*tensor.RawTensor
}

func newRecorder() *recorder {
	return &recorder{
		ids:    make(map[*tensor.RawTensor]int),
		consts: make(map[int]*tensor.RawTensor),
	}
}

// bind assigns v an id without freezing it as a constant. Used for the
// input leaves before the trace starts.
func (r *recorder) bind(v *tensor.RawTensor) int {
	if id, ok := r.ids[v]; ok {
		return id
	}
	id := r.next
	r.next++
	r.ids[v] = id
	return id
}

// id resolves v during the trace. A value first seen as an argument was
// created outside the recorded ops, so its traced contents become a
// frozen constant.
func (r *recorder) id(v *tensor.RawTensor, produced bool) int {
	if id, ok := r.ids[v]; ok {
		return id
	}
	id := r.bind(v)
	if !produced {
		r.consts[id] = v
	}
	return id
}

func (r *recorder) Record(p *autodiff.Primitive, args, _ []*tensor.RawTensor, out *tensor.RawTensor, _ autodiff.GradFn) {
	op := frozenOp{prim: p, args: make([]int, len(args))}
	for i, a := range args {
		op.args[i] = r.id(a, false)
	}
	op.out = r.id(out, true)
	r.ops = append(r.ops, op)
}

// Compile wraps fun in a trace-and-replay cache keyed on argument
// structure. The wrapped function is safe for concurrent use.
func Compile(ctx *autodiff.Context, fun autodiff.Func) func(args ...any) (any, error) {
	var (
		mu    sync.Mutex
		cache = make(map[string]*graph)
	)
	return func(args ...any) (any, error) {
		leaves, def, err := tree.Flatten(args)
		if err != nil {
			return nil, errors.Wrap(err, "jit: flattening arguments")
		}
		key := cacheKey(def, leaves)

		mu.Lock()
		g, ok := cache[key]
		mu.Unlock()
		if ok {
			return replay(ctx, g, leaves)
		}

		g, out, err := trace(ctx, fun, args, leaves)
		if err != nil {
			return nil, err
		}
		mu.Lock()
		cache[key] = g
		mu.Unlock()
		return out, nil
	}
}

// cacheKey combines the argument structure with per-leaf signatures:
// data type and shape for tensors, type and value for statics.
func cacheKey(def *tree.Def, leaves []any) string {
	var sb strings.Builder
	sb.WriteString(def.Signature())
	for _, l := range leaves {
		if t, ok := l.(*tensor.RawTensor); ok {
			fmt.Fprintf(&sb, "|%v%v", t.DType(), t.Shape())
			continue
		}
		fmt.Fprintf(&sb, "|%T=%v", l, l)
	}
	return sb.String()
}

// trace runs fun once under a fresh recorder and freezes the result.
// The traced output is returned so the cold call does not replay.
func trace(ctx *autodiff.Context, fun autodiff.Func, args, leaves []any) (*graph, any, error) {
	rec := newRecorder()
	inputIDs := make([]int, len(leaves))
	for i, l := range leaves {
		inputIDs[i] = -1
		if t, ok := l.(*tensor.RawTensor); ok {
			inputIDs[i] = rec.bind(t)
		}
	}

	ctx.PushSink(rec)
	defer func() {
		if ctx.ActiveSink() == autodiff.Sink(rec) {
			ctx.PopSink()
		}
	}()
	out := fun(args...)
	ctx.PopSink()

	outLeaves, outDef, err := tree.Flatten(out)
	if err != nil {
		return nil, nil, errors.Wrap(err, "jit: flattening traced output")
	}
	frozen := make([]outLeaf, len(outLeaves))
	for i, l := range outLeaves {
		frozen[i] = outLeaf{id: -1, val: l}
		if t, ok := l.(*tensor.RawTensor); ok {
			if id, seen := rec.ids[t]; seen {
				frozen[i] = outLeaf{id: id}
			}
		}
	}

	g := &graph{
		ops:       rec.ops,
		numIDs:    rec.next,
		consts:    rec.consts,
		inputIDs:  inputIDs,
		outDef:    outDef,
		outLeaves: frozen,
	}
	return g, out, nil
}

// replay executes a frozen graph against fresh argument leaves.
func replay(ctx *autodiff.Context, g *graph, leaves []any) (any, error) {
	env := make([]*tensor.RawTensor, g.numIDs)
	for id, v := range g.consts {
		env[id] = v
	}
	for i, l := range leaves {
		id := g.inputIDs[i]
		if id < 0 {
			continue
		}
		t, ok := l.(*tensor.RawTensor)
		if !ok {
			return nil, errors.Errorf("jit: argument leaf %d: expected tensor, got %T", i, l)
		}
		env[id] = t
	}

	ctx.WithoutRecording(func() {
		for _, op := range g.ops {
			callArgs := make([]*tensor.RawTensor, len(op.args))
			for i, id := range op.args {
				callArgs[i] = env[id]
			}
			env[op.out] = op.prim.Call(ctx, callArgs...)
		}
	})

	flat := make([]any, len(g.outLeaves))
	for i, ol := range g.outLeaves {
		if ol.id >= 0 {
			flat[i] = env[ol.id]
			continue
		}
		flat[i] = ol.val
	}
	out, err := tree.Unflatten(flat, g.outDef)
	if err != nil {
		return nil, errors.Wrap(err, "jit: rebuilding output structure")
	}
	return out, nil
}

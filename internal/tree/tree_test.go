package tree_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tapegrad-ml/tapegrad/internal/tensor"
	"github.com/tapegrad-ml/tapegrad/internal/tree"
)

type point struct {
	X any
	Y any
}

// ring exercises the custom-container registry: it flattens to its
// items and rebuilds with its capacity as metadata.
type ring struct {
	items []any
	cap   int
}

func init() {
	tree.MustRegister(&ring{},
		func(v any) ([]any, any, error) {
			r := v.(*ring)
			return r.items, r.cap, nil
		},
		func(children []any, meta any) (any, error) {
			return &ring{items: children, cap: meta.(int)}, nil
		})
}

func TestFlatten_LeafOrder(t *testing.T) {
	v := map[string]any{
		"b": []any{2, 3},
		"a": 1,
		"c": point{X: 4, Y: 5},
	}
	leaves, def, err := tree.Flatten(v)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	// Depth-first, map keys sorted.
	want := []any{1, 2, 3, 4, 5}
	if diff := cmp.Diff(want, leaves); diff != "" {
		t.Errorf("leaves mismatch (-want +got):\n%s", diff)
	}
	if def.NumLeaves() != 5 {
		t.Errorf("NumLeaves() = %d, want 5", def.NumLeaves())
	}
}

func TestFlattenUnflatten_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		v    any
	}{
		{"scalar leaf", 42},
		{"nil", nil},
		{"empty slice", []any{}},
		{"singleton", []any{"x"}},
		{"nested three deep", map[string]any{
			"w": []any{point{X: 1, Y: []any{2, 3}}, 4},
			"z": map[string]any{"inner": []any{5}},
		}},
		{"typed slice", []int{1, 2, 3}},
		{"typed map", map[string]int{"a": 1, "b": 2}},
		{"struct pointer", &point{X: 1, Y: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leaves, def, err := tree.Flatten(tt.v)
			if err != nil {
				t.Fatalf("Flatten: %v", err)
			}
			back, err := tree.Unflatten(leaves, def)
			if err != nil {
				t.Fatalf("Unflatten: %v", err)
			}
			if diff := cmp.Diff(tt.v, back); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFlatten_RegisteredContainer(t *testing.T) {
	r := &ring{items: []any{1, 2, 3}, cap: 8}
	leaves, def, err := tree.Flatten(r)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	if diff := cmp.Diff([]any{1, 2, 3}, leaves); diff != "" {
		t.Errorf("leaves mismatch (-want +got):\n%s", diff)
	}

	back, err := tree.Unflatten([]any{10, 20, 30}, def)
	if err != nil {
		t.Fatalf("Unflatten: %v", err)
	}
	r2, ok := back.(*ring)
	if !ok {
		t.Fatalf("Unflatten returned %T, want *ring", back)
	}
	if r2.cap != 8 {
		t.Errorf("metadata lost: cap = %d, want 8", r2.cap)
	}
	if diff := cmp.Diff([]any{10, 20, 30}, r2.items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestFlatten_TensorIsLeaf(t *testing.T) {
	x := tensor.Zeros(tensor.Shape{2}, tensor.Float64)
	leaves, def, err := tree.Flatten([]any{x})
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	if len(leaves) != 1 || leaves[0] != any(x) {
		t.Fatalf("tensor was decomposed: %d leaves", len(leaves))
	}
	if def.NumLeaves() != 1 {
		t.Errorf("NumLeaves() = %d, want 1", def.NumLeaves())
	}
}

func TestFlatten_BytesAreLeaves(t *testing.T) {
	leaves, _, err := tree.Flatten([]any{[]byte("abc")})
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	if len(leaves) != 1 {
		t.Errorf("[]byte was decomposed into %d leaves, want 1", len(leaves))
	}
}

func TestFlatten_NonStringKeys(t *testing.T) {
	_, _, err := tree.Flatten(map[int]any{1: "x"})
	var se *tree.StructureError
	if !errors.As(err, &se) {
		t.Fatalf("Flatten(map[int]any) error = %v, want StructureError", err)
	}
}

func TestUnflatten_LeafCountMismatch(t *testing.T) {
	_, def, err := tree.Flatten([]any{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	_, err = tree.Unflatten([]any{1, 2}, def)
	var se *tree.StructureError
	if !errors.As(err, &se) {
		t.Fatalf("Unflatten error = %v, want StructureError", err)
	}
}

func TestUnflatten_DegradesOnNilLeaves(t *testing.T) {
	_, def, err := tree.Flatten(map[string]int{"a": 1, "b": 2})
	if err != nil {
		t.Fatal(err)
	}
	// A nil gradient cannot live in map[string]int.
	back, err := tree.Unflatten([]any{nil, 7}, def)
	if err != nil {
		t.Fatalf("Unflatten: %v", err)
	}
	m, ok := back.(map[string]any)
	if !ok {
		t.Fatalf("Unflatten returned %T, want map[string]any", back)
	}
	if m["a"] != nil || m["b"] != 7 {
		t.Errorf("degraded map = %v", m)
	}
}

func TestDef_Signature(t *testing.T) {
	_, d1, _ := tree.Flatten(map[string]any{"a": 1, "b": 2})
	_, d2, _ := tree.Flatten(map[string]any{"a": 9, "b": 8})
	_, d3, _ := tree.Flatten(map[string]any{"a": 1, "c": 2})
	if d1.Signature() != d2.Signature() {
		t.Error("same structure, different signatures")
	}
	if d1.Signature() == d3.Signature() {
		t.Error("different keys, same signature")
	}
}

func TestMap(t *testing.T) {
	v := []any{1, []any{2, 3}}
	out, err := tree.Map(func(l any) any { return l.(int) * 10 }, v)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	want := []any{10, []any{20, 30}}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("Map mismatch (-want +got):\n%s", diff)
	}
}

func TestRegister_Validation(t *testing.T) {
	err := tree.Register(nil, nil, nil)
	if err == nil {
		t.Fatal("Register(nil, nil, nil) = nil, want error")
	}
}

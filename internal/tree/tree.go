// Package tree implements structural flattening of nested Go values
// ("pytrees"): containers are decomposed depth-first, left-to-right into
// an ordered list of leaves plus a Def that can rebuild the exact
// container shape.
//
// Containers are, in priority order: types registered with Register,
// slices (except []byte), string-keyed maps, and structs (or pointers to
// structs) whose fields are all exported. Everything else is a leaf.
// Structs with unexported fields are leaves because they could not be
// rebuilt faithfully; this is also what keeps opaque values like
// *tensor.RawTensor atomic.
package tree

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// Kind tags the variants of a Def node.
type Kind uint8

// Def node kinds.
const (
	KindLeaf Kind = iota
	KindSlice
	KindMap
	KindStruct
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindSlice:
		return "slice"
	case KindMap:
		return "map"
	case KindStruct:
		return "struct"
	case KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// StructureError reports a mismatch between a value and the structure
// described by a Def, or a value that cannot be flattened.
type StructureError struct {
	msg string
}

func (e *StructureError) Error() string {
	return "structure mismatch: " + e.msg
}

func structErrf(format string, args ...any) *StructureError {
	return &StructureError{msg: fmt.Sprintf(format, args...)}
}

// Def is the structural descriptor produced by Flatten. It records, per
// node, the container kind and the metadata needed to rebuild it:
// the concrete Go type, map keys or struct field names in flattening
// order, and registered-type metadata.
type Def struct {
	kind     Kind
	typ      reflect.Type // container type; nil for leaves
	keys     []string     // map keys or struct field names
	meta     any          // metadata returned by a registered flattener
	children []*Def
	leaves   int
}

// IsLeaf reports whether the Def describes a single leaf.
func (d *Def) IsLeaf() bool {
	return d.kind == KindLeaf
}

// NumLeaves returns the number of leaf slots the Def describes.
func (d *Def) NumLeaves() int {
	return d.leaves
}

// Signature returns a canonical string for the structure, usable as a
// cache key. Two values flatten to Defs with equal signatures exactly
// when they have the same container structure.
func (d *Def) Signature() string {
	var sb strings.Builder
	d.writeSignature(&sb)
	return sb.String()
}

func (d *Def) writeSignature(sb *strings.Builder) {
	switch d.kind {
	case KindLeaf:
		sb.WriteByte('*')
		return
	case KindSlice:
		fmt.Fprintf(sb, "s<%v>", d.typ)
	case KindMap:
		fmt.Fprintf(sb, "m<%v>", d.typ)
	case KindStruct:
		fmt.Fprintf(sb, "t<%v>", d.typ)
	case KindCustom:
		fmt.Fprintf(sb, "c<%v:%v>", d.typ, d.meta)
	}
	sb.WriteByte('(')
	for i, c := range d.children {
		if i > 0 {
			sb.WriteByte(',')
		}
		if d.keys != nil {
			sb.WriteString(d.keys[i])
			sb.WriteByte('=')
		}
		c.writeSignature(sb)
	}
	sb.WriteByte(')')
}

var leafDef = &Def{kind: KindLeaf, leaves: 1}

// Flatten decomposes v into its ordered leaves and a Def describing the
// nesting. Leaf contents are never touched or copied.
func Flatten(v any) ([]any, *Def, error) {
	var leaves []any
	def, err := flatten(v, &leaves)
	if err != nil {
		return nil, nil, err
	}
	return leaves, def, nil
}

func flatten(v any, leaves *[]any) (*Def, error) {
	if v == nil {
		*leaves = append(*leaves, v)
		return leafDef, nil
	}
	rt := reflect.TypeOf(v)

	if ops, ok := lookup(rt); ok {
		children, meta, err := ops.flatten(v)
		if err != nil {
			return nil, errors.Wrapf(err, "flattening registered type %v", rt)
		}
		return flattenChildren(KindCustom, rt, nil, meta, children, leaves)
	}

	switch rt.Kind() {
	case reflect.Slice:
		if rt.Elem().Kind() == reflect.Uint8 {
			break // []byte and friends are opaque leaves
		}
		rv := reflect.ValueOf(v)
		children := make([]any, rv.Len())
		for i := range children {
			children[i] = rv.Index(i).Interface()
		}
		return flattenChildren(KindSlice, rt, nil, nil, children, leaves)

	case reflect.Map:
		if rt.Key().Kind() != reflect.String {
			return nil, structErrf("map type %v is not flattenable: keys must be strings", rt)
		}
		rv := reflect.ValueOf(v)
		keys := make([]string, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			keys = append(keys, iter.Key().String())
		}
		slices.Sort(keys)
		children := make([]any, len(keys))
		for i, k := range keys {
			children[i] = rv.MapIndex(reflect.ValueOf(k).Convert(rt.Key())).Interface()
		}
		return flattenChildren(KindMap, rt, keys, nil, children, leaves)

	case reflect.Struct:
		if keys, ok := structFieldNames(rt); ok {
			return flattenStruct(reflect.ValueOf(v), rt, keys, leaves)
		}

	case reflect.Ptr:
		if rt.Elem().Kind() == reflect.Struct {
			if keys, ok := structFieldNames(rt.Elem()); ok {
				rv := reflect.ValueOf(v)
				if rv.IsNil() {
					break
				}
				return flattenStruct(rv.Elem(), rt, keys, leaves)
			}
		}
	}

	*leaves = append(*leaves, v)
	return leafDef, nil
}

func flattenStruct(rv reflect.Value, typ reflect.Type, keys []string, leaves *[]any) (*Def, error) {
	children := make([]any, len(keys))
	for i := range keys {
		children[i] = rv.Field(i).Interface()
	}
	return flattenChildren(KindStruct, typ, keys, nil, children, leaves)
}

func flattenChildren(kind Kind, typ reflect.Type, keys []string, meta any, children []any, leaves *[]any) (*Def, error) {
	d := &Def{kind: kind, typ: typ, keys: keys, meta: meta}
	for _, c := range children {
		child, err := flatten(c, leaves)
		if err != nil {
			return nil, err
		}
		d.children = append(d.children, child)
		d.leaves += child.leaves
	}
	return d, nil
}

// structFieldNames returns the field names of a struct type that is a
// container: non-empty and with every field exported.
func structFieldNames(rt reflect.Type) ([]string, bool) {
	n := rt.NumField()
	if n == 0 {
		return nil, false
	}
	names := make([]string, n)
	for i := 0; i < n; i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			return nil, false
		}
		names[i] = f.Name
	}
	return names, true
}

// Unflatten rebuilds the nested value described by def from leaves,
// consuming them in flattening order. It fails with a StructureError if
// the leaf count does not match the Def.
//
// When a leaf is not assignable to the element type of a typed
// container (gradient trees put nil where a leaf is not differentiable),
// the container degrades to its generic counterpart: []any for slices,
// map[string]any for maps and structs.
func Unflatten(leaves []any, def *Def) (any, error) {
	if len(leaves) != def.leaves {
		return nil, structErrf("have %d leaves, structure wants %d", len(leaves), def.leaves)
	}
	cursor := leaves
	v, err := unflatten(&cursor, def)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func unflatten(cursor *[]any, def *Def) (any, error) {
	if def.kind == KindLeaf {
		v := (*cursor)[0]
		*cursor = (*cursor)[1:]
		return v, nil
	}

	children := make([]any, len(def.children))
	for i, c := range def.children {
		v, err := unflatten(cursor, c)
		if err != nil {
			return nil, err
		}
		children[i] = v
	}

	switch def.kind {
	case KindCustom:
		ops, ok := lookup(def.typ)
		if !ok {
			return nil, structErrf("type %v is no longer registered", def.typ)
		}
		v, err := ops.unflatten(children, def.meta)
		if err != nil {
			return nil, errors.Wrapf(err, "rebuilding registered type %v", def.typ)
		}
		return v, nil

	case KindSlice:
		elem := def.typ.Elem()
		if !allAssignable(children, elem) {
			return children, nil
		}
		out := reflect.MakeSlice(def.typ, len(children), len(children))
		for i, c := range children {
			out.Index(i).Set(elemValue(c, elem))
		}
		return out.Interface(), nil

	case KindMap:
		elem := def.typ.Elem()
		if !allAssignable(children, elem) {
			generic := make(map[string]any, len(children))
			for i, k := range def.keys {
				generic[k] = children[i]
			}
			return generic, nil
		}
		out := reflect.MakeMapWithSize(def.typ, len(children))
		for i, k := range def.keys {
			out.SetMapIndex(reflect.ValueOf(k).Convert(def.typ.Key()), elemValue(children[i], elem))
		}
		return out.Interface(), nil

	case KindStruct:
		structType := def.typ
		isPtr := structType.Kind() == reflect.Ptr
		if isPtr {
			structType = structType.Elem()
		}
		assignable := true
		for i, c := range children {
			if !assignableTo(c, structType.Field(i).Type) {
				assignable = false
				break
			}
		}
		if !assignable {
			generic := make(map[string]any, len(children))
			for i, k := range def.keys {
				generic[k] = children[i]
			}
			return generic, nil
		}
		out := reflect.New(structType).Elem()
		for i, c := range children {
			out.Field(i).Set(elemValue(c, structType.Field(i).Type))
		}
		if isPtr {
			return out.Addr().Interface(), nil
		}
		return out.Interface(), nil
	}
	return nil, structErrf("corrupt structure descriptor (kind %v)", def.kind)
}

func allAssignable(children []any, elem reflect.Type) bool {
	for _, c := range children {
		if !assignableTo(c, elem) {
			return false
		}
	}
	return true
}

func assignableTo(v any, typ reflect.Type) bool {
	if v == nil {
		// Only nilable targets can carry a structural nil.
		switch typ.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
			return true
		default:
			return false
		}
	}
	return reflect.TypeOf(v).AssignableTo(typ)
}

func elemValue(v any, typ reflect.Type) reflect.Value {
	if v == nil {
		return reflect.Zero(typ)
	}
	return reflect.ValueOf(v)
}

// Map applies fn to every leaf of v, preserving structure.
func Map(fn func(any) any, v any) (any, error) {
	leaves, def, err := Flatten(v)
	if err != nil {
		return nil, err
	}
	mapped := make([]any, len(leaves))
	for i, l := range leaves {
		mapped[i] = fn(l)
	}
	return Unflatten(mapped, def)
}

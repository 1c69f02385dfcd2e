// Copyright 2026 TapeGrad Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tree exposes structural flattening of nested Go values:
// containers decompose depth-first, left-to-right into leaves plus a
// Def that can rebuild the exact container shape.
//
// Example:
//
//	leaves, def, _ := tree.Flatten(map[string]any{"a": x, "b": []any{y, z}})
//	// leaves = [x, y, z] (map keys in sorted order)
//	back, _ := tree.Unflatten(leaves, def)
package tree

import (
	"github.com/tapegrad-ml/tapegrad/internal/tree"
)

// Def is the structural descriptor produced by Flatten.
type Def = tree.Def

// StructureError reports a value/structure mismatch.
type StructureError = tree.StructureError

// FlattenFunc decomposes a registered container into children plus
// metadata.
type FlattenFunc = tree.FlattenFunc

// UnflattenFunc rebuilds a registered container from children plus the
// metadata its FlattenFunc produced.
type UnflattenFunc = tree.UnflattenFunc

// Flatten decomposes v into its ordered leaves and a Def.
func Flatten(v any) ([]any, *Def, error) {
	return tree.Flatten(v)
}

// Unflatten rebuilds the nested value described by def from leaves.
func Unflatten(leaves []any, def *Def) (any, error) {
	return tree.Unflatten(leaves, def)
}

// Map applies fn to every leaf of v, preserving structure.
func Map(fn func(any) any, v any) (any, error) {
	return tree.Map(fn, v)
}

// Register makes values of prototype's dynamic type flatten as
// containers through f and rebuild through u.
func Register(prototype any, f FlattenFunc, u UnflattenFunc) error {
	return tree.Register(prototype, f, u)
}

// MustRegister is Register that panics on error.
func MustRegister(prototype any, f FlattenFunc, u UnflattenFunc) {
	tree.MustRegister(prototype, f, u)
}

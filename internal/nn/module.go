// Package nn provides parameter containers and a few layers on top of
// the differentiation engine: Parameter wraps a named trainable tensor,
// Module groups parameters and submodules under dotted names, and the
// layers express their forward computation through ops so it records.
package nn

import (
	"sort"

	"github.com/tapegrad-ml/tapegrad/internal/tensor"
)

// Module is a named collection of parameters and nested modules. Passing
// a Module (or anything embedding one) to ValueAndGrad yields gradients
// keyed by the dotted parameter names that NamedParams reports.
type Module struct {
	params   map[string]*Parameter
	children map[string]*Module
}

// NewModule creates an empty module.
func NewModule() *Module {
	return &Module{
		params:   make(map[string]*Parameter),
		children: make(map[string]*Module),
	}
}

// RegisterParam attaches a parameter under the given local name,
// replacing any previous registration.
func (m *Module) RegisterParam(name string, p *Parameter) {
	m.params[name] = p
}

// RegisterModule attaches a submodule under the given local name.
func (m *Module) RegisterModule(name string, child *Module) {
	m.children[name] = child
}

// Param looks up a parameter by dotted path ("layer1.weight").
func (m *Module) Param(path string) (*Parameter, bool) {
	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			child, ok := m.children[path[:i]]
			if !ok {
				return nil, false
			}
			return child.Param(path[i+1:])
		}
	}
	p, ok := m.params[path]
	return p, ok
}

// NamedParams returns every parameter in the subtree keyed by dotted
// path, in deterministic order when iterated through SortedNames.
func (m *Module) NamedParams() map[string]*Parameter {
	out := make(map[string]*Parameter)
	m.collect("", out)
	return out
}

func (m *Module) collect(prefix string, out map[string]*Parameter) {
	for name, p := range m.params {
		out[prefix+name] = p
	}
	for name, child := range m.children {
		child.collect(prefix+name+".", out)
	}
}

// TrainableParams returns the raw tensors of every unfrozen parameter
// keyed by dotted path. This is the ParamSet contract the engine expands
// module arguments through.
func (m *Module) TrainableParams() map[string]*tensor.RawTensor {
	out := make(map[string]*tensor.RawTensor)
	for name, p := range m.NamedParams() {
		if p.Trainable() {
			out[name] = p.Raw()
		}
	}
	return out
}

// SortedNames returns the dotted paths of a parameter map in sorted
// order, for stable iteration.
func SortedNames[V any](params map[string]V) []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

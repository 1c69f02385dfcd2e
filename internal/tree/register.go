package tree

import (
	"reflect"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// FlattenFunc decomposes a registered container into its ordered
// children and opaque metadata for reconstruction.
type FlattenFunc func(v any) (children []any, meta any, err error)

// UnflattenFunc rebuilds a registered container from children and the
// metadata its FlattenFunc produced.
type UnflattenFunc func(children []any, meta any) (any, error)

type containerOps struct {
	flatten   FlattenFunc
	unflatten UnflattenFunc
}

var (
	registryMu sync.RWMutex
	registry   = map[reflect.Type]containerOps{}
)

// Register adds a container type to the codec registry for the lifetime
// of the process. The type is taken from prototype's dynamic type.
// Re-registering a type overwrites the previous functions; Defs built
// earlier keep working because they reference the type, not the
// functions.
func Register(prototype any, flatten FlattenFunc, unflatten UnflattenFunc) error {
	var err error
	if prototype == nil {
		err = multierr.Append(err, errors.New("prototype must not be nil"))
	}
	if flatten == nil {
		err = multierr.Append(err, errors.New("flatten function must not be nil"))
	}
	if unflatten == nil {
		err = multierr.Append(err, errors.New("unflatten function must not be nil"))
	}
	if err != nil {
		return errors.Wrap(err, "tree: register")
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	registry[reflect.TypeOf(prototype)] = containerOps{flatten: flatten, unflatten: unflatten}
	return nil
}

// MustRegister is Register that panics on a malformed registration.
// Intended for package init functions.
func MustRegister(prototype any, flatten FlattenFunc, unflatten UnflattenFunc) {
	if err := Register(prototype, flatten, unflatten); err != nil {
		panic(err)
	}
}

func lookup(rt reflect.Type) (containerOps, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	ops, ok := registry[rt]
	return ops, ok
}

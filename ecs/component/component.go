package component

import (
	"errors"
	"reflect"
	"sync"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

type ComponentID uint32

var registry struct {
	sync.Mutex
	names []string
}

func register(name string) ComponentID {
	registry.Lock()
	defer registry.Unlock()
	registry.names = append(registry.names, name)
	return ComponentID(len(registry.names))
}

// ComponentKind identifies a component type. The zero kind is invalid.
type ComponentKind[T any] struct {
	id ComponentID
}

// NewComponentKind registers a new kind for T. Registering T twice yields two
// distinct kinds.
func NewComponentKind[T any]() ComponentKind[T] {
	return ComponentKind[T]{id: register(reflect.TypeFor[T]().String())}
}

func (k ComponentKind[T]) ID() ComponentID {
	return k.id
}

func (k ComponentKind[T]) Valid() bool {
	return k.id != 0
}

// Name is the Go type name the kind was registered with.
func (k ComponentKind[T]) Name() string {
	if !k.Valid() {
		return ""
	}
	registry.Lock()
	defer registry.Unlock()
	return registry.names[k.id-1]
}

type ComponentHandle[T any] struct {
	kind ComponentKind[T]
}

func NewComponent[T any]() ComponentHandle[T] {
	return ComponentHandle[T]{kind: NewComponentKind[T]()}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] {
	return h.kind
}

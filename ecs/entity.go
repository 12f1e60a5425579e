package ecs

import "fmt"

// Entity is a handle to a world slot. The low half is the slot id and the
// high half counts how many times the slot has been reused, so a handle kept
// past DestroyEntity stops matching once the slot is handed out again.
type Entity uint64

type (
	entityID   uint32
	generation uint32
)

const (
	idMask   = 1<<32 - 1
	genShift = 32
)

func makeEntity(id entityID, gen generation) Entity {
	return Entity(gen)<<genShift | Entity(id)
}

func (e Entity) id() entityID {
	return entityID(e & idMask)
}

func (e Entity) generation() generation {
	return generation(e >> genShift)
}

// String renders the handle as id.generation for log output.
func (e Entity) String() string {
	return fmt.Sprintf("%d.%d", e.id(), e.generation())
}

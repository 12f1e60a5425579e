package ecs

import "github.com/milk9111/layeredaudio/ecs/component"

func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if w == nil || !w.entities.isAlive(e) {
		return component.ErrEntityNotAlive
	}
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	w.store(kind.ID(), true).Set(e.id(), value)
	return nil
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	return w.store(kind.ID(), false).Remove(e.id())
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	return w.store(kind.ID(), false).Has(e.id())
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if w == nil || !w.entities.isAlive(e) {
		return nil, false
	}
	value, ok := w.store(kind.ID(), false).Get(e.id()).(*T)
	return value, ok
}

// First returns the first live entity carrying the component.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	if w == nil {
		return 0, false
	}
	s := w.store(kind.ID(), false)
	if s.Len() == 0 {
		return 0, false
	}
	return w.entities.entity(s.denseEntities[0])
}

// ForEach visits every entity with the component. The callback may add,
// remove or destroy; entities removed before their turn are skipped.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	if w == nil || fn == nil {
		return
	}
	for _, id := range w.store(kind.ID(), false).ids() {
		e, ok := w.entities.entity(id)
		if !ok {
			continue
		}
		if v, ok := Get(w, e, kind); ok {
			fn(e, v)
		}
	}
}

func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	if w == nil || fn == nil {
		return
	}
	ForEach(w, ka, func(e Entity, a *A) {
		b, ok := Get(w, e, kb)
		if !ok {
			return
		}
		fn(e, a, b)
	})
}

func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	if w == nil || fn == nil {
		return
	}
	ForEach2(w, ka, kb, func(e Entity, a *A, b *B) {
		c, ok := Get(w, e, kc)
		if !ok {
			return
		}
		fn(e, a, b, c)
	})
}

// Drain collects every value of a request component and destroys the
// entities that carried them, in the order they were added.
func Drain[T any](w *World, kind component.ComponentKind[T]) []T {
	var (
		out  []T
		ents []Entity
	)
	ForEach(w, kind, func(e Entity, v *T) {
		out = append(out, *v)
		ents = append(ents, e)
	})
	for _, e := range ents {
		DestroyEntity(w, e)
	}
	return out
}

package ecs

import (
	"fmt"

	"github.com/milk9111/handcar/ecs/component"
)

func lookup[T any](w *World, kind component.ComponentKind[T]) *SparseSet[T] {
	if w == nil || !kind.Valid() {
		return nil
	}
	s, ok := w.stores[kind.ID()]
	if !ok {
		return nil
	}
	set, _ := s.(*SparseSet[T])
	return set
}

func Add[T any](w *World, e Entity, handle component.ComponentHandle[T], value T) error {
	kind := handle.Kind()
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if !w.IsAlive(e) {
		return fmt.Errorf("add component to %s: %w", e, component.ErrEntityNotAlive)
	}
	set := lookup(w, kind)
	if set == nil {
		set = &SparseSet[T]{}
		w.stores[kind.ID()] = set
	}
	set.set(e.id(), value)
	return nil
}

func Remove[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	if !w.IsAlive(e) {
		return false
	}
	set := lookup(w, handle.Kind())
	if set == nil {
		return false
	}
	return set.remove(e.id())
}

func Has[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	if !w.IsAlive(e) {
		return false
	}
	set := lookup(w, handle.Kind())
	return set != nil && set.has(e.id())
}

// Get returns a pointer to e's component. Writes through the pointer
// mutate the stored value; the pointer must not be kept past the next Add
// or Remove of the same component kind.
func Get[T any](w *World, e Entity, handle component.ComponentHandle[T]) (*T, bool) {
	if !w.IsAlive(e) {
		return nil, false
	}
	set := lookup(w, handle.Kind())
	if set == nil {
		return nil, false
	}
	return set.get(e.id())
}

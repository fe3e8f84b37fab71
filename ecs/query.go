package ecs

import (
	"sort"

	"github.com/milk9111/handcar/ecs/component"
)

func sortEntities(ents []Entity) {
	sort.Slice(ents, func(i, j int) bool { return ents[i].id() < ents[j].id() })
}

// ForEach calls fn for every live entity holding kind, in id order.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	set := lookup(w, kind)
	if set == nil {
		return
	}
	for _, e := range w.Query(kind) {
		if v, ok := set.get(e.id()); ok {
			fn(e, v)
		}
	}
}

package graph

import (
	"maps"
	"slices"
)

// TypeGraph answers node-type subtyping queries.
type TypeGraph interface {
	// IsNodeType reports whether l is a declared node type.
	IsNodeType(l Label) bool
	// IsSubtype reports whether sub equals super or is declared below it.
	IsSubtype(sub, super Label) bool
	// Subtypes returns super and all its declared subtypes.
	Subtypes(super Label) []Label
}

// IsSubtype consults tg, treating a nil type graph as having no subtyping.
func IsSubtype(tg TypeGraph, sub, super Label) bool {
	if tg == nil {
		return sub == super
	}
	return tg.IsSubtype(sub, super)
}

// TypeHierarchy is a [TypeGraph] with an explicit, transitively closed
// subtype relation.
type TypeHierarchy struct {
	supers map[Label]map[Label]struct{} // type -> all supertypes, itself included
}

// NewTypeGraph creates an empty hierarchy.
func NewTypeGraph() *TypeHierarchy {
	return &TypeHierarchy{supers: make(map[Label]map[Label]struct{})}
}

// AddType declares a node type.
func (t *TypeHierarchy) AddType(l Label) {
	if _, ok := t.supers[l]; !ok {
		t.supers[l] = map[Label]struct{}{l: {}}
	}
}

// AddSubtype declares sub below super, declaring both if necessary.
// All subtypes of sub inherit the supertypes of super.
func (t *TypeHierarchy) AddSubtype(sub, super Label) {
	t.AddType(sub)
	t.AddType(super)
	add := t.supers[super]
	for _, sups := range t.supers {
		if _, below := sups[sub]; below {
			for s := range add {
				sups[s] = struct{}{}
			}
		}
	}
}

// IsNodeType reports whether l was declared.
func (t *TypeHierarchy) IsNodeType(l Label) bool {
	_, ok := t.supers[l]
	return ok
}

// IsSubtype reports whether sub is super or lies below it.
func (t *TypeHierarchy) IsSubtype(sub, super Label) bool {
	if sub == super {
		return true
	}
	_, ok := t.supers[sub][super]
	return ok
}

// Subtypes returns super and everything below it, sorted.
func (t *TypeHierarchy) Subtypes(super Label) []Label {
	var result []Label
	for l, sups := range t.supers {
		if _, ok := sups[super]; ok {
			result = append(result, l)
		}
	}
	slices.SortFunc(result, CompareLabels)
	return result
}

// Types returns all declared types, sorted.
func (t *TypeHierarchy) Types() []Label {
	return slices.SortedFunc(maps.Keys(t.supers), CompareLabels)
}

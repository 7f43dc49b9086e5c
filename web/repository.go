package web

import "slices"

// entity is the ordered element sequence of one chunk or stream.
type entity struct {
	elements []Element
	resolved bool
}

// namespace maps names to entities and remembers first-definition order.
type namespace struct {
	order  []string
	byName map[string]*entity
}

// Repository holds the chunk and stream namespaces of a [Web].
//
// During parsing an entity accumulates line references and symbolic uses.
// After expansion it holds line references only.
type Repository struct {
	ns [2]namespace
}

func (r *Repository) space(kind Kind) *namespace {
	ns := &r.ns[kind]
	if ns.byName == nil {
		ns.byName = make(map[string]*entity)
	}

	return ns
}

// define returns the entity for ref, creating an empty one if needed.
func (r *Repository) define(ref Ref) *entity {
	ns := r.space(ref.Kind)

	ent, ok := ns.byName[ref.Name]
	if !ok {
		ent = &entity{}
		ns.byName[ref.Name] = ent
		ns.order = append(ns.order, ref.Name)
	}

	return ent
}

func (r *Repository) lookup(ref Ref) (*entity, bool) {
	ent, ok := r.space(ref.Kind).byName[ref.Name]

	return ent, ok
}

// Has reports whether ref names a defined chunk or stream.
func (r *Repository) Has(ref Ref) bool {
	_, ok := r.lookup(ref)

	return ok
}

// Names returns the names defined in the given namespace, in order of first
// definition.
func (r *Repository) Names(kind Kind) []string {
	return slices.Clone(r.space(kind).order)
}

// Elements returns a copy of the current element sequence of ref.
func (r *Repository) Elements(ref Ref) ([]Element, bool) {
	ent, ok := r.lookup(ref)
	if !ok {
		return nil, false
	}

	return slices.Clone(ent.elements), true
}

// Resolved reports whether ref has been expanded.
func (r *Repository) Resolved(ref Ref) bool {
	ent, ok := r.lookup(ref)

	return ok && ent.resolved
}

// push appends e to the sequence of every named entity of the given kind.
func (r *Repository) push(kind Kind, names []string, e Element) {
	for _, name := range names {
		ent := r.define(Ref{Kind: kind, Name: name})
		ent.elements = append(ent.elements, e)
	}
}

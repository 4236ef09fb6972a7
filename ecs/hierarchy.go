package ecs

import (
	"iter"

	"github.com/rotisserie/eris"

	"github.com/milk9111/lockstep/ecs/component"
)

var (
	// ErrHierarchyCycle is returned when an attach would make an entity its
	// own ancestor.
	ErrHierarchyCycle = eris.New("hierarchy: attach would create a cycle")
	// ErrNotAttached is returned when detaching an entity without a parent.
	ErrNotAttached = eris.New("hierarchy: entity has no parent")
)

// Relationship links an entity into a forest. Children are a doubly linked
// sibling list headed by FirstChild; Children counts its length. The fields
// are plain ids: the registry does not keep them valid, the mutators in this
// file do.
type Relationship struct {
	Parent     Entity
	FirstChild Entity
	Prev       Entity
	Next       Entity
	Children   int
}

var RelationshipComponent = component.NewComponent[Relationship]("relationship")

// Attach makes child the first child of parent, detaching it from any
// previous parent.
func Attach(r *Registry, child, parent Entity) error {
	if !child.Valid() || !parent.Valid() {
		return eris.Errorf("hierarchy: attach %s to %s: invalid entity", child, parent)
	}
	for a := parent; a.Valid(); a = parentOf(r, a) {
		if a == child {
			return eris.Wrapf(ErrHierarchyCycle, "attach %s to %s", child, parent)
		}
	}
	if parentOf(r, child).Valid() {
		if err := Detach(r, child); err != nil {
			return err
		}
	}

	// Both components must exist before taking pointers: adding to the
	// store may move its values.
	rels := StoreOf(r, RelationshipComponent)
	if !rels.Has(child) {
		rels.Add(child, Relationship{})
	}
	if !rels.Has(parent) {
		rels.Add(parent, Relationship{})
	}
	c, _ := rels.Get(child)
	p, _ := rels.Get(parent)

	c.Parent = parent
	c.Prev = NullEntity
	c.Next = p.FirstChild
	if p.FirstChild.Valid() {
		if head, ok := rels.Get(p.FirstChild); ok {
			head.Prev = child
		}
	}
	p.FirstChild = child
	p.Children++
	return nil
}

// Detach unlinks child from its parent. The child keeps its own subtree.
func Detach(r *Registry, child Entity) error {
	rels := StoreOf(r, RelationshipComponent)
	c, ok := rels.Get(child)
	if !ok || !c.Parent.Valid() {
		return eris.Wrapf(ErrNotAttached, "detach %s", child)
	}
	p, ok := rels.Get(c.Parent)
	if !ok {
		return eris.Errorf("hierarchy: parent %s of %s has no relationship", c.Parent, child)
	}

	if c.Prev.Valid() {
		if prev, ok := rels.Get(c.Prev); ok {
			prev.Next = c.Next
		}
	} else {
		p.FirstChild = c.Next
	}
	if c.Next.Valid() {
		if next, ok := rels.Get(c.Next); ok {
			next.Prev = c.Prev
		}
	}
	p.Children--

	c.Parent = NullEntity
	c.Prev = NullEntity
	c.Next = NullEntity
	return nil
}

// Parent returns e's parent, or NullEntity.
func Parent(r *Registry, e Entity) Entity {
	return parentOf(r, e)
}

// Children yields parent's children, most recently attached first.
func Children(r *Registry, parent Entity) iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		rels := StoreOf(r, RelationshipComponent)
		p, ok := rels.Get(parent)
		if !ok {
			return
		}
		for e := p.FirstChild; e.Valid(); {
			rel, ok := rels.Get(e)
			if !ok {
				return
			}
			next := rel.Next
			if !yield(e) {
				return
			}
			e = next
		}
	}
}

// DestroyTree detaches e from its parent and destroys e and all of its
// descendants.
func DestroyTree(r *Registry, e Entity) {
	if parentOf(r, e).Valid() {
		_ = Detach(r, e)
	}
	subtree := []Entity{e}
	for i := 0; i < len(subtree); i++ {
		for child := range Children(r, subtree[i]) {
			subtree = append(subtree, child)
		}
	}
	for _, d := range subtree {
		r.DestroyEntity(d)
	}
}

// ValidateHierarchy checks every Relationship in r: parents agree with their
// sibling chains, Children matches the chain length and no entity is its own
// ancestor.
func ValidateHierarchy(r *Registry) error {
	rels := StoreOf(r, RelationshipComponent)
	for _, e := range rels.Entities() {
		rel, _ := rels.Get(e)
		count := 0
		prev := NullEntity
		for c := rel.FirstChild; c.Valid(); {
			cr, ok := rels.Get(c)
			if !ok {
				return eris.Errorf("hierarchy: child %s of %s has no relationship", c, e)
			}
			if cr.Parent != e {
				return eris.Errorf("hierarchy: child %s of %s names parent %s", c, e, cr.Parent)
			}
			if cr.Prev != prev {
				return eris.Errorf("hierarchy: child %s of %s has prev %s, want %s", c, e, cr.Prev, prev)
			}
			count++
			if count > rels.Len() {
				return eris.Wrapf(ErrHierarchyCycle, "sibling chain of %s", e)
			}
			prev = c
			c = cr.Next
		}
		if count != rel.Children {
			return eris.Errorf("hierarchy: %s counts %d children, chain has %d", e, rel.Children, count)
		}
		steps := 0
		for a := rel.Parent; a.Valid(); a = parentOf(r, a) {
			if a == e || steps > rels.Len() {
				return eris.Wrapf(ErrHierarchyCycle, "ancestors of %s", e)
			}
			steps++
		}
	}
	return nil
}

func parentOf(r *Registry, e Entity) Entity {
	rel, ok := TryGet(r, e, RelationshipComponent)
	if !ok {
		return NullEntity
	}
	return rel.Parent
}

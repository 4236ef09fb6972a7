package ecs

import (
	"iter"

	"github.com/milk9111/lockstep/ecs/component"
)

// DriverStrategy picks which of a view's stores is iterated; the others are
// only probed for membership. sizes holds each store's Len in request order.
type DriverStrategy func(sizes []int) int

// SmallestStore drives with the store holding the fewest entities. Ties go
// to the kind requested first.
func SmallestStore(sizes []int) int {
	best := 0
	for i := 1; i < len(sizes); i++ {
		if sizes[i] < sizes[best] {
			best = i
		}
	}
	return best
}

// FirstStore always drives with the first requested kind, making iteration
// order follow that store regardless of sizes.
func FirstStore([]int) int {
	return 0
}

// Query iterates the entities holding every requested component. It is
// recomputed on every iteration; nothing is cached between calls.
//
// Adding or removing components of a participating type while iterating is
// not supported.
type Query struct {
	stores []storage
	driver int
	empty  bool
}

// Query builds an untyped query over kinds. A kind with no store yet
// matches nothing.
func (r *Registry) Query(kinds ...component.Kind) Query {
	q := Query{stores: make([]storage, 0, len(kinds))}
	for _, k := range kinds {
		s, ok := r.lookup(k.ID())
		if !ok {
			return Query{empty: true}
		}
		q.stores = append(q.stores, s)
	}
	q.pickDriver(r.driver)
	return q
}

func newQuery(r *Registry, stores ...storage) Query {
	q := Query{stores: stores}
	q.pickDriver(r.driver)
	return q
}

func (q *Query) pickDriver(strategy DriverStrategy) {
	if len(q.stores) == 0 {
		q.empty = true
		return
	}
	sizes := make([]int, len(q.stores))
	for i, s := range q.stores {
		sizes[i] = s.Len()
	}
	q.driver = strategy(sizes)
}

// Entities yields matching entities in the driver store's dense order.
func (q Query) Entities() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		if q.empty {
			return
		}
		d := q.stores[q.driver]
		for slot := 0; slot < d.Len(); slot++ {
			e := d.entityAt(slot)
			if !q.matches(e) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Collect returns the matching entities as a slice.
func (q Query) Collect() []Entity {
	var out []Entity
	for e := range q.Entities() {
		out = append(out, e)
	}
	return out
}

// Count returns the number of matching entities.
func (q Query) Count() int {
	n := 0
	for range q.Entities() {
		n++
	}
	return n
}

func (q Query) matches(e Entity) bool {
	for i, s := range q.stores {
		if i == q.driver {
			continue
		}
		if !s.has(e) {
			return false
		}
	}
	return true
}

// View1 iterates a single component type.
type View1[A any] struct {
	Query
	a *Store[A]
}

func NewView1[A any](r *Registry, ka component.ComponentKind[A]) View1[A] {
	a := storeFor(r, ka)
	return View1[A]{Query: newQuery(r, a), a: a}
}

func (v View1[A]) Each(fn func(Entity, *A)) {
	for e := range v.Entities() {
		pa, _ := v.a.Get(e)
		fn(e, pa)
	}
}

// All yields each entity with its component.
func (v View1[A]) All() iter.Seq2[Entity, *A] {
	return func(yield func(Entity, *A) bool) {
		for e := range v.Entities() {
			pa, _ := v.a.Get(e)
			if !yield(e, pa) {
				return
			}
		}
	}
}

// View2 iterates entities holding both A and B.
type View2[A, B any] struct {
	Query
	a *Store[A]
	b *Store[B]
}

func NewView2[A, B any](r *Registry, ka component.ComponentKind[A], kb component.ComponentKind[B]) View2[A, B] {
	a, b := storeFor(r, ka), storeFor(r, kb)
	return View2[A, B]{Query: newQuery(r, a, b), a: a, b: b}
}

func (v View2[A, B]) Each(fn func(Entity, *A, *B)) {
	for e := range v.Entities() {
		pa, _ := v.a.Get(e)
		pb, _ := v.b.Get(e)
		fn(e, pa, pb)
	}
}

// View3 iterates entities holding A, B and C.
type View3[A, B, C any] struct {
	Query
	a *Store[A]
	b *Store[B]
	c *Store[C]
}

func NewView3[A, B, C any](r *Registry, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C]) View3[A, B, C] {
	a, b, c := storeFor(r, ka), storeFor(r, kb), storeFor(r, kc)
	return View3[A, B, C]{Query: newQuery(r, a, b, c), a: a, b: b, c: c}
}

func (v View3[A, B, C]) Each(fn func(Entity, *A, *B, *C)) {
	for e := range v.Entities() {
		pa, _ := v.a.Get(e)
		pb, _ := v.b.Get(e)
		pc, _ := v.c.Get(e)
		fn(e, pa, pb, pc)
	}
}

// View4 iterates entities holding A, B, C and D.
type View4[A, B, C, D any] struct {
	Query
	a *Store[A]
	b *Store[B]
	c *Store[C]
	d *Store[D]
}

func NewView4[A, B, C, D any](r *Registry, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], kd component.ComponentKind[D]) View4[A, B, C, D] {
	a, b, c, d := storeFor(r, ka), storeFor(r, kb), storeFor(r, kc), storeFor(r, kd)
	return View4[A, B, C, D]{Query: newQuery(r, a, b, c, d), a: a, b: b, c: c, d: d}
}

func (v View4[A, B, C, D]) Each(fn func(Entity, *A, *B, *C, *D)) {
	for e := range v.Entities() {
		pa, _ := v.a.Get(e)
		pb, _ := v.b.Get(e)
		pc, _ := v.c.Get(e)
		pd, _ := v.d.Get(e)
		fn(e, pa, pb, pc, pd)
	}
}

// ForEach is shorthand for NewView1(r, ka).Each(fn).
func ForEach[A any](r *Registry, ka component.ComponentKind[A], fn func(Entity, *A)) {
	NewView1(r, ka).Each(fn)
}

// ForEach2 is shorthand for NewView2(r, ka, kb).Each(fn).
func ForEach2[A, B any](r *Registry, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	NewView2(r, ka, kb).Each(fn)
}

// ForEach3 is shorthand for NewView3(r, ka, kb, kc).Each(fn).
func ForEach3[A, B, C any](r *Registry, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	NewView3(r, ka, kb, kc).Each(fn)
}

// First returns the first entity, in dense order, holding kind.
func First[A any](r *Registry, ka component.ComponentKind[A]) (Entity, bool) {
	for e := range NewView1(r, ka).Entities() {
		return e, true
	}
	return NullEntity, false
}

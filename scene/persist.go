package scene

import (
	"slices"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/milk9111/lockstep/ecs"
	"github.com/milk9111/lockstep/ecs/component"
)

// Save captures every entity that carries an Identity. Components without a
// codec are left out. It must not run concurrently with a Scheduler.Update.
func Save(r *ecs.Registry, codecs *Codecs) Document {
	var doc Document
	for _, e := range r.Entities() {
		id, ok := ecs.TryGet(r, e, component.IdentityComponent)
		if !ok {
			continue
		}
		spec := EntitySpec{ID: id.ID, Name: id.Name}
		if p := ecs.Parent(r, e); p.Valid() {
			if pid, ok := ecs.TryGet(r, p, component.IdentityComponent); ok {
				spec.Parent = pid.ID.String()
			}
		}
		for _, kind := range r.Components(e) {
			cd, ok := codecs.byID[kind.ID()]
			if !ok {
				continue
			}
			v, ok := cd.encode(r, e)
			if !ok {
				continue
			}
			if spec.Components == nil {
				spec.Components = make(map[string]any)
			}
			spec.Components[kind.Name()] = v
		}
		doc.Entities = append(doc.Entities, spec)
	}
	return doc
}

// Load adds the entities of doc to r and returns them keyed by Identity id.
// Entities without an id get a fresh one. On error every entity Load
// created is destroyed again.
func Load(r *ecs.Registry, codecs *Codecs, doc Document) (map[uuid.UUID]ecs.Entity, error) {
	byID := make(map[uuid.UUID]ecs.Entity, len(doc.Entities))
	created := make([]ecs.Entity, 0, len(doc.Entities))
	fail := func(err error) (map[uuid.UUID]ecs.Entity, error) {
		for _, e := range created {
			r.DestroyEntity(e)
		}
		return nil, err
	}

	ids := make([]uuid.UUID, len(doc.Entities))
	for i, spec := range doc.Entities {
		id := spec.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		if _, dup := byID[id]; dup {
			return fail(eris.Errorf("scene: duplicate entity id %s", id))
		}
		ids[i] = id

		e := r.CreateEntity()
		created = append(created, e)
		byID[id] = e
		ecs.Add(r, e, component.IdentityComponent, component.Identity{ID: id, Name: spec.Name})

		// Sorted so that decode errors are reported deterministically.
		names := make([]string, 0, len(spec.Components))
		for name := range spec.Components {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			if err := codecs.decode(r, e, name, spec.Components[name]); err != nil {
				return fail(eris.Wrapf(err, "scene: entity %q", spec.Name))
			}
		}
	}

	for i, spec := range doc.Entities {
		if spec.Parent == "" {
			continue
		}
		pid, err := uuid.Parse(spec.Parent)
		if err != nil {
			return fail(eris.Wrapf(err, "scene: entity %q parent", spec.Name))
		}
		parent, ok := byID[pid]
		if !ok {
			return fail(eris.Errorf("scene: entity %q: parent %s not in scene", spec.Name, pid))
		}
		if err := ecs.Attach(r, byID[ids[i]], parent); err != nil {
			return fail(eris.Wrapf(err, "scene: entity %q", spec.Name))
		}
	}
	return byID, nil
}

package dynamo

// World holds the live entities, the viewport and the physics parameters.
// Entities are kept in insertion order so iteration is deterministic.
type World struct {
	entities []*Entity
	bounds   Bounds
	params   Params
	nextID   EntityID
}

func NewWorld(bounds Bounds, params Params) (*World, error) {
	if err := bounds.validate(); err != nil {
		return nil, err
	}
	if err := params.validate(); err != nil {
		return nil, err
	}
	return &World{
		entities: make([]*Entity, 0, 32),
		bounds:   bounds,
		params:   params,
		nextID:   1,
	}, nil
}

func (w *World) Bounds() Bounds { return w.bounds }
func (w *World) Params() Params { return w.params }
func (w *World) Len() int       { return len(w.entities) }

// Entities returns the live entities in insertion order. The slice is owned
// by the world and must not be retained across lifecycle operations.
func (w *World) Entities() []*Entity { return w.entities }

func (w *World) SetGravity(on bool) { w.params.Gravity = on }

// ToggleGravity flips the gravity flag and returns the new value.
func (w *World) ToggleGravity() bool {
	w.params.Gravity = !w.params.Gravity
	return w.params.Gravity
}

// Add assigns e the next id and makes it live. Entities larger than the
// viewport are rejected because they could never be contained.
func (w *World) Add(e *Entity) (EntityID, error) {
	if e == nil {
		return 0, invalidf("nil entity")
	}
	if e.Diameter() > w.bounds.Width || e.Diameter() > w.bounds.Height {
		return 0, invalidf("entity diameter %g exceeds viewport %gx%g", e.Diameter(), w.bounds.Width, w.bounds.Height)
	}
	e.ID = w.nextID
	e.Alive = true
	w.nextID++
	w.entities = append(w.entities, e)
	return e.ID, nil
}

func (w *World) Lookup(id EntityID) (*Entity, bool) {
	for _, e := range w.entities {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// Remove drops the entity with the given id and marks it dead.
func (w *World) Remove(id EntityID) (*Entity, error) {
	for i, e := range w.entities {
		if e.ID != id {
			continue
		}
		copy(w.entities[i:], w.entities[i+1:])
		w.entities[len(w.entities)-1] = nil
		w.entities = w.entities[:len(w.entities)-1]
		e.Alive = false
		return e, nil
	}
	return nil, &EntityError{Op: "remove", ID: id, Err: ErrEntityNotFound}
}

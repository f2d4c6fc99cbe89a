package ecs

import "strconv"

// EntityID is a unique identifier for an entity (string, never recycled).
type EntityID string

// Component names usable with World.With. The always-present record fields
// (position, velocity, scale, tag, physics) match every entity.
type Component string

const (
	CompPosition   Component = "position"
	CompVelocity   Component = "velocity"
	CompScale      Component = "scale"
	CompTag        Component = "tag"
	CompPhysics    Component = "physics"
	CompWobble     Component = "wobble"
	CompFalling    Component = "falling"
	CompStacked    Component = "stacked"
	CompBanking    Component = "banking"
	CompScattering Component = "scattering"
	CompConfused   Component = "confused"
	CompAbility    Component = "ability"
	CompMagnet     Component = "magnetProbe"
	CompMagnetMark Component = "magnetMark"
	CompAttraction Component = "attraction"
	CompSpeedMod   Component = "speedModifier"
	CompBoss       Component = "boss"
)

// Entity is a fixed record of optional components. The lifecycle components
// (Falling/Stacked/Banking/Scattering) are mutually exclusive; use the
// transition functions in lifecycle.go, never set them directly.
type Entity struct {
	ID       EntityID
	Tag      Tag
	Position Vec3
	Velocity Vec3
	Scale    Vec3
	Physics  Physics

	Wobble     *Wobble
	Falling    *Falling
	Stacked    *Stacked
	Banking    *Banking
	Scattering *Scattering
	Confused   *Confused

	Ability     *Ability
	MagnetProbe *MagnetProbe
	MagnetMark  *MagnetMark
	Attraction  *AttractionField
	SpeedMods   []SpeedModifier

	Boss *Boss
}

// Has reports whether the entity carries the named component.
func (e *Entity) Has(c Component) bool {
	switch c {
	case CompPosition, CompVelocity, CompScale, CompTag, CompPhysics:
		return true
	case CompWobble:
		return e.Wobble != nil
	case CompFalling:
		return e.Falling != nil
	case CompStacked:
		return e.Stacked != nil
	case CompBanking:
		return e.Banking != nil
	case CompScattering:
		return e.Scattering != nil
	case CompConfused:
		return e.Confused != nil
	case CompAbility:
		return e.Ability != nil
	case CompMagnet:
		return e.MagnetProbe != nil
	case CompMagnetMark:
		return e.MagnetMark != nil
	case CompAttraction:
		return e.Attraction != nil
	case CompSpeedMod:
		return len(e.SpeedMods) > 0
	case CompBoss:
		return e.Boss != nil
	}
	return false
}

// World holds all live entities. It is mutated in place by every system;
// each system owns writes to its own component types.
type World struct {
	nextID   uint64
	order    []EntityID
	entities map[EntityID]*Entity
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{
		nextID:   1,
		entities: make(map[EntityID]*Entity),
	}
}

// NewEntity creates, stores and returns a fresh entity with a generated ID.
func (w *World) NewEntity(tag Tag) *Entity {
	id := EntityID("e" + strconv.FormatUint(w.nextID, 10))
	w.nextID++
	e := &Entity{
		ID:    id,
		Tag:   tag,
		Scale: Vec3{1, 1, 1},
	}
	w.order = append(w.order, id)
	w.entities[id] = e
	return e
}

// Add stores an externally built entity by reference. If its ID is empty a
// fresh one is assigned; an entity whose ID is already present replaces the
// stored reference without re-ordering.
func (w *World) Add(e *Entity) *Entity {
	if e.ID == "" {
		e.ID = EntityID("e" + strconv.FormatUint(w.nextID, 10))
		w.nextID++
	}
	if _, ok := w.entities[e.ID]; !ok {
		w.order = append(w.order, e.ID)
	}
	w.entities[e.ID] = e
	return e
}

// Get returns the entity with the given id, or nil.
func (w *World) Get(id EntityID) *Entity {
	return w.entities[id]
}

// Remove deletes the entity with the given id. Unknown ids are ignored.
func (w *World) Remove(id EntityID) {
	if _, ok := w.entities[id]; !ok {
		return
	}
	delete(w.entities, id)
	for i, oid := range w.order {
		if oid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

// With returns every entity carrying all named components. This is the
// single query primitive; callers must not rely on the returned order.
func (w *World) With(comps ...Component) []*Entity {
	out := make([]*Entity, 0, len(w.order))
next:
	for _, id := range w.order {
		e := w.entities[id]
		for _, c := range comps {
			if !e.Has(c) {
				continue next
			}
		}
		out = append(out, e)
	}
	return out
}

// Clear removes every entity. Used for test isolation and full restarts;
// there is no implicit reset between games.
func (w *World) Clear() {
	w.order = w.order[:0]
	w.entities = make(map[EntityID]*Entity)
}

// Size returns the number of live entities.
func (w *World) Size() int {
	return len(w.entities)
}

// LifecycleViolations returns ids of entities holding more than one
// lifecycle component. An empty result is the invariant.
func (w *World) LifecycleViolations() []EntityID {
	var bad []EntityID
	for _, id := range w.order {
		e := w.entities[id]
		n := 0
		if e.Falling != nil {
			n++
		}
		if e.Stacked != nil {
			n++
		}
		if e.Banking != nil {
			n++
		}
		if e.Scattering != nil {
			n++
		}
		if n > 1 {
			bad = append(bad, id)
		}
	}
	return bad
}

package ecs

// Lifecycle transitions. Each function removes the previous lifecycle
// component and installs the next one in a single step so an entity is
// never observed in two lifecycle states at once.

func clearLifecycle(e *Entity) {
	e.Falling = nil
	e.Stacked = nil
	e.Banking = nil
	e.Scattering = nil
}

// StartFalling puts the entity into the falling state.
func StartFalling(e *Entity, f Falling) {
	clearLifecycle(e)
	e.Falling = &f
}

// LandOnStack transitions a falling entity onto a stack. Velocity is zeroed;
// the caller assigns index and offset via the stacking layout rule.
func LandOnStack(e *Entity, s Stacked) {
	clearLifecycle(e)
	e.Velocity = Vec3{}
	e.Stacked = &s
}

// StartBanking sends a stacked entity toward the bank drop-off.
func StartBanking(e *Entity, b Banking) {
	clearLifecycle(e)
	e.Banking = &b
}

// StartScattering knocks an entity off a toppled stack.
func StartScattering(e *Entity, s Scattering) {
	clearLifecycle(e)
	e.Scattering = &s
}

// StackMembers returns the stacked entities sharing baseID, ordered by
// StackIndex ascending. Indexes form a contiguous sequence from 0.
func StackMembers(w *World, baseID EntityID) []*Entity {
	members := w.With(CompStacked)
	out := make([]*Entity, 0, len(members))
	for _, e := range members {
		if e.Stacked.BaseID == baseID {
			out = append(out, e)
		}
	}
	// insertion sort; stacks are short
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Stacked.StackIndex < out[j-1].Stacked.StackIndex; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// StackHeight returns the number of stacked entities on baseID.
func StackHeight(w *World, baseID EntityID) int {
	n := 0
	for _, e := range w.With(CompStacked) {
		if e.Stacked.BaseID == baseID {
			n++
		}
	}
	return n
}

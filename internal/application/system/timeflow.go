package system

import "github.com/younwookim/farmstack/internal/ecs"

// TimeflowSystem owns the slow/freeze speed modifiers. An applied modifier
// multiplies the fall velocity once; expiry divides by the same factor, so
// the pre-effect speed comes back exactly. Modifiers stack across distinct
// sources but a source never applies twice to the same entity.
type TimeflowSystem struct{}

func NewTimeflowSystem() *TimeflowSystem {
	return &TimeflowSystem{}
}

// Apply attaches a speed modifier to every eligible falling entity and
// returns how many were touched. Bosses are exempt. Entities that already
// carry a modifier from the same source are skipped.
func (s *TimeflowSystem) Apply(w *ecs.World, sourceID string, factor, duration float64) int {
	if factor <= 0 {
		return 0
	}
	n := 0
	for _, e := range w.With(ecs.CompFalling) {
		if e.Boss != nil || hasModifier(e, sourceID) {
			continue
		}
		e.Velocity.Y *= factor
		e.SpeedMods = append(e.SpeedMods, ecs.SpeedModifier{
			SourceID:  sourceID,
			Factor:    factor,
			Remaining: duration,
		})
		n++
	}
	return n
}

// Update decrements modifier timers and restores velocity on expiry.
func (s *TimeflowSystem) Update(w *ecs.World, dt float64) {
	for _, e := range w.With(ecs.CompSpeedMod) {
		kept := e.SpeedMods[:0]
		for i := range e.SpeedMods {
			m := e.SpeedMods[i]
			m.Remaining -= dt
			if m.Remaining <= 0 {
				e.Velocity.Y /= m.Factor
				continue
			}
			kept = append(kept, m)
		}
		e.SpeedMods = kept
		if len(e.SpeedMods) == 0 {
			e.SpeedMods = nil
		}
	}
}

// Expire removes every modifier from the given source immediately,
// restoring the affected velocities.
func (s *TimeflowSystem) Expire(w *ecs.World, sourceID string) {
	for _, e := range w.With(ecs.CompSpeedMod) {
		kept := e.SpeedMods[:0]
		for _, m := range e.SpeedMods {
			if m.SourceID == sourceID {
				e.Velocity.Y /= m.Factor
				continue
			}
			kept = append(kept, m)
		}
		e.SpeedMods = kept
		if len(e.SpeedMods) == 0 {
			e.SpeedMods = nil
		}
	}
}

func hasModifier(e *ecs.Entity, sourceID string) bool {
	for _, m := range e.SpeedMods {
		if m.SourceID == sourceID {
			return true
		}
	}
	return false
}

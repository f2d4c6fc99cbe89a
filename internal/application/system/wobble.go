package system

import (
	"math"
	"math/rand"

	"github.com/younwookim/farmstack/internal/ecs"
	"github.com/younwookim/farmstack/internal/infrastructure/config"
)

// WobbleEvents reports stack stability outcomes for one tick.
type WobbleEvents struct {
	InDanger bool
	// Toppled lists the members converted to scattering, top first.
	Toppled []ecs.EntityID
}

// WobbleSystem integrates the spring-damper lean of every stack and is the
// only writer of wobble components. External forces come in through
// ApplyForce; the stabilize ability comes in through Stabilize.
type WobbleSystem struct {
	cfg   config.WobbleConfig
	world config.WorldConfig
	rng   *rand.Rand

	// Global stabilize modifier; reverts when the timer runs out.
	stabilizeFactor    float64
	stabilizeDangerPad float64
	stabilizeRemaining float64
}

// NewWobbleSystem creates the stability system with a seeded RNG for
// scatter rotation.
func NewWobbleSystem(sim *config.SimConfig, rng *rand.Rand) *WobbleSystem {
	return &WobbleSystem{cfg: sim.Wobble, world: sim.World, rng: rng, stabilizeFactor: 1}
}

// ApplyForce adds an external disturbance (poke, landing impact) to the
// base's wobble velocity, scaled by 1/sqrt(mergeLevel) so merged stacks
// resist.
func (s *WobbleSystem) ApplyForce(base *ecs.Entity, force float64) {
	if base.Wobble == nil {
		return
	}
	merge := base.Wobble.MergeLevel
	if merge < 1 {
		merge = 1
	}
	base.Wobble.Velocity += force / math.Sqrt(float64(merge))
	base.Wobble.Velocity = ecs.Clamp(base.Wobble.Velocity, s.cfg.MaxVelocity)
}

// Stabilize applies a global timed calming modifier: springiness is scaled
// by factor and the danger threshold is padded by dangerPad.
func (s *WobbleSystem) Stabilize(factor, dangerPad, duration float64) {
	s.stabilizeFactor = factor
	s.stabilizeDangerPad = dangerPad
	s.stabilizeRemaining = duration
}

// Stabilized reports whether the global calming modifier is active.
func (s *WobbleSystem) Stabilized() bool {
	return s.stabilizeRemaining > 0
}

// Update integrates all stacks for one tick and resolves danger/topple.
func (s *WobbleSystem) Update(w *ecs.World, now, dt float64) WobbleEvents {
	var ev WobbleEvents

	if s.stabilizeRemaining > 0 {
		s.stabilizeRemaining -= dt
		if s.stabilizeRemaining <= 0 {
			s.stabilizeFactor = 1
			s.stabilizeDangerPad = 0
		}
	}

	danger := s.cfg.DangerThreshold + s.stabilizeDangerPad

	for _, base := range w.With(ecs.CompWobble) {
		// A wobble carrier in a non-base lifecycle state is stale; skip
		// it for the tick rather than halting the simulation.
		if base.Falling != nil || base.Scattering != nil {
			continue
		}
		wb := base.Wobble

		spring := wb.EffectiveSpringiness() * s.stabilizeFactor
		wb.Velocity += -wb.Offset * spring
		wb.Velocity *= s.cfg.Damping
		wb.Offset += wb.Velocity

		wb.Velocity = ecs.Clamp(wb.Velocity, s.cfg.MaxVelocity)
		wb.Offset = ecs.Clamp(wb.Offset, s.cfg.MaxOffset)

		s.layoutStack(w, base)

		lean := math.Abs(wb.Offset)
		if lean > danger {
			ev.InDanger = true
		}
		if lean >= s.cfg.ToppleThreshold {
			ev.Toppled = append(ev.Toppled, s.topple(w, base, now)...)
		}
	}

	return ev
}

// layoutStack keeps stacked members riding the base: each member sits one
// unit above the previous one and leans with the base's wobble. The lean
// grows up the column so the top member carries the full offset, lining up
// with the catch target the falling system aims at.
func (s *WobbleSystem) layoutStack(w *ecs.World, base *ecs.Entity) {
	members := ecs.StackMembers(w, base.ID)
	n := len(members)
	for i, m := range members {
		frac := float64(i+1) / float64(n)
		m.Position.X = base.Position.X + base.Wobble.Offset*frac + m.Stacked.StackOffset
		m.Position.Y = base.Position.Y + float64(m.Stacked.StackIndex+1)*s.world.UnitHeight
	}
}

// topple converts every stacked member of base to scattering, top first,
// and resets the base spring. Irreversible.
func (s *WobbleSystem) topple(w *ecs.World, base *ecs.Entity, now float64) []ecs.EntityID {
	members := ecs.StackMembers(w, base.ID)
	toppled := make([]ecs.EntityID, 0, len(members))

	dir := sign(base.Wobble.Offset)
	if dir == 0 {
		dir = 1
	}

	for i := len(members) - 1; i >= 0; i-- {
		m := members[i]
		ecs.StartScattering(m, ecs.Scattering{
			RotVelocity: (s.rng.Float64()*2 - 1) * 2.0,
			StartedAt:   now,
		})
		m.Confused = &ecs.Confused{Remaining: s.cfg.ConfusedMs / 1000}
		m.Velocity.X = dir * s.cfg.ScatterSpeed * (0.6 + s.rng.Float64()*0.8)
		m.Velocity.Y = s.cfg.ScatterSpeed * 0.4
		m.Wobble = nil
		toppled = append(toppled, m.ID)
	}

	base.Wobble.Offset = 0
	base.Wobble.Velocity = 0
	base.Wobble.StabilityBonus = 0
	base.Wobble.MergeLevel = 1

	return toppled
}

// DangerThreshold returns the effective danger threshold, including any
// active stabilize padding.
func (s *WobbleSystem) DangerThreshold() float64 {
	return s.cfg.DangerThreshold + s.stabilizeDangerPad
}

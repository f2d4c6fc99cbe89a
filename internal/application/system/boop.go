package system

import (
	"github.com/younwookim/farmstack/internal/ecs"
	"github.com/younwookim/farmstack/internal/infrastructure/config"
)

// BoopSystem emits staggered radial shockwaves that shove falling entities
// away from the wave origin. Waves are pending records with a countdown;
// each fires exactly once when its delay runs out.
type BoopSystem struct {
	pending []boopWave
}

type boopWave struct {
	delay  float64
	x, y   float64
	radius float64
	force  float64
}

func NewBoopSystem() *BoopSystem {
	return &BoopSystem{}
}

// Emit queues the configured wave train at (x, y). Wave i fires after
// i * waveDelay. Returns the number of waves queued.
func (s *BoopSystem) Emit(ac config.AbilityConfig, x, y float64) int {
	waves := ac.Waves
	if waves < 1 {
		waves = 1
	}
	for i := 0; i < waves; i++ {
		s.pending = append(s.pending, boopWave{
			delay:  float64(i) * ac.WaveDelayMs / 1000,
			x:      x,
			y:      y,
			radius: ac.WaveRadius,
			force:  ac.WaveForce,
		})
	}
	return waves
}

// Pending returns the number of queued waves that have not fired yet.
func (s *BoopSystem) Pending() int {
	return len(s.pending)
}

// Update counts down pending waves and fires the ripe ones.
func (s *BoopSystem) Update(w *ecs.World, dt float64) {
	kept := s.pending[:0]
	for _, wave := range s.pending {
		wave.delay -= dt
		if wave.delay <= 0 {
			s.fire(w, wave)
			continue
		}
		kept = append(kept, wave)
	}
	s.pending = kept
}

// fire pushes every falling entity inside the wave radius away from the
// origin, force falling off linearly with distance.
func (s *BoopSystem) fire(w *ecs.World, wave boopWave) {
	origin := ecs.Vec3{X: wave.x, Y: wave.y}
	for _, e := range w.With(ecs.CompFalling) {
		if e.Boss != nil {
			continue
		}
		dist := e.Position.DistXY(origin)
		if dist > wave.radius {
			continue
		}
		falloff := 1 - dist/wave.radius
		dir := sign(e.Position.X - wave.x)
		if dir == 0 {
			dir = 1
		}
		e.Velocity.X += dir * wave.force * falloff
		// Small upward kick so a booped entity visibly pops.
		e.Velocity.Y += wave.force * falloff * 0.25
	}
}

package system

import (
	"hash/fnv"
	"math"
	"strconv"

	"github.com/younwookim/farmstack/internal/ecs"
	"github.com/younwookim/farmstack/internal/infrastructure/config"
)

// FallingEvents reports what happened to airborne entities during one tick.
// The session layer reacts (lives, score, combo); this system only reports.
type FallingEvents struct {
	Caught  []ecs.EntityID
	Missed  []ecs.EntityID
	Banked  []ecs.EntityID
	Escaped []ecs.EntityID // bosses that reached the kill plane
}

// FallingSystem advances every airborne entity: falling steering, banking
// flight and scatter tumble. Transient speed modifiers are owned by the
// ability systems and are never recomputed here; steering only adds
// acceleration terms on top of the spawned velocity.
type FallingSystem struct {
	cfg       config.FallingConfig
	world     config.WorldConfig
	jitterMax float64
}

// NewFallingSystem creates the falling-behavior system.
func NewFallingSystem(sim *config.SimConfig) *FallingSystem {
	return &FallingSystem{cfg: sim.Falling, world: sim.World, jitterMax: sim.Wobble.JitterMax}
}

// Update advances airborne entities for one tick. player is the stack base;
// its x (plus its wobble lean) is the catch target.
func (s *FallingSystem) Update(w *ecs.World, player *ecs.Entity, now, dt float64) FallingEvents {
	var ev FallingEvents

	stackX := player.Position.X
	if player.Wobble != nil {
		stackX += player.Wobble.Offset
	}
	height := ecs.StackHeight(w, player.ID)
	catchY := player.Position.Y + float64(height+1)*s.world.UnitHeight

	swarmCX, swarmN := s.swarmCentroid(w)

	for _, e := range w.With(ecs.CompFalling) {
		f := e.Falling
		f.Age += dt

		s.steer(e, f, stackX, player.Position.X, swarmCX, swarmN, dt)

		e.Velocity.X = ecs.Clamp(e.Velocity.X, s.cfg.MaxSpeed)
		e.Velocity.Y = ecs.Clamp(e.Velocity.Y, s.cfg.MaxSpeed)

		e.Position = e.Position.Add(e.Velocity.Scale(dt))
		e.Position.X = ecs.Clamp(e.Position.X, s.world.HalfWidth)

		if e.Confused != nil {
			e.Confused.Remaining -= dt
			if e.Confused.Remaining <= 0 {
				e.Confused = nil
			}
		}

		// Catch: crossing the catch plane near enough to the stack.
		if e.Confused == nil && e.Boss == nil &&
			e.Position.Y <= catchY &&
			math.Abs(e.Position.X-stackX) <= s.world.CatchTolerance {
			s.land(e, player.ID, height)
			height++
			catchY += s.world.UnitHeight
			ev.Caught = append(ev.Caught, e.ID)
			continue
		}

		// Miss: below the floor plane outside tolerance.
		if e.Position.Y < s.world.FloorY {
			if e.Boss != nil {
				ev.Escaped = append(ev.Escaped, e.ID)
			} else {
				ev.Missed = append(ev.Missed, e.ID)
			}
			w.Remove(e.ID)
		}
	}

	ev.Banked = append(ev.Banked, s.updateBanking(w, dt)...)
	s.updateScattering(w, dt)

	return ev
}

// steer applies the behavior-specific steering term for one tick.
func (s *FallingSystem) steer(e *ecs.Entity, f *ecs.Falling, stackX, playerX, swarmCX float64, swarmN int, dt float64) {
	switch f.Behavior {
	case ecs.BehaviorSeeker:
		e.Velocity.X += s.cfg.SteerStrength * sign(stackX-e.Position.X) * dt
	case ecs.BehaviorEvader:
		e.Velocity.X += s.cfg.SteerStrength * sign(e.Position.X-playerX) * dt
	case ecs.BehaviorZigzag:
		f.TargetX += s.cfg.ZigzagDrift * dt * sign(stackX-f.TargetX)
		desired := f.TargetX + s.cfg.ZigzagAmplitude*math.Sin(2*math.Pi*s.cfg.ZigzagFrequency*f.Age)
		e.Velocity.X = (desired - e.Position.X) * s.cfg.SteerStrength
	case ecs.BehaviorSwarm:
		if swarmN > 1 {
			e.Velocity.X += s.cfg.SwarmCohesion * (swarmCX - e.Position.X) * dt
		}
	case ecs.BehaviorDive:
		if f.Age >= s.cfg.DiveDelayMs/1000 {
			e.Velocity.Y -= s.cfg.DiveAccel * speedFactor(e) * dt
		}
	case ecs.BehaviorFloater:
		e.Velocity.X = s.cfg.FloaterDrift * math.Sin(f.Age)
	}
}

// land transitions a caught entity onto the stack. The horizontal jitter is
// a hash of (base, index) so identical repeated stack states lay out
// identically.
func (s *FallingSystem) land(e *ecs.Entity, baseID ecs.EntityID, index int) {
	ecs.LandOnStack(e, ecs.Stacked{
		StackIndex:  index,
		StackOffset: StackJitter(baseID, index, s.jitterMax),
		BaseID:      baseID,
	})
	e.SpeedMods = nil
	e.MagnetMark = nil
}

func (s *FallingSystem) updateBanking(w *ecs.World, dt float64) []ecs.EntityID {
	var banked []ecs.EntityID
	for _, e := range w.With(ecs.CompBanking) {
		b := e.Banking
		dx := b.TargetX - e.Position.X
		dy := b.TargetY - e.Position.Y
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist < 0.3 {
			banked = append(banked, e.ID)
			w.Remove(e.ID)
			continue
		}
		speed := s.cfg.MaxSpeed * 0.8
		e.Velocity.X = dx / dist * speed
		e.Velocity.Y = dy / dist * speed
		e.Position = e.Position.Add(e.Velocity.Scale(dt))
	}
	return banked
}

func (s *FallingSystem) updateScattering(w *ecs.World, dt float64) {
	for _, e := range w.With(ecs.CompScattering) {
		e.Velocity.Y -= s.cfg.BaseFallSpeed * 3 * dt
		e.Position = e.Position.Add(e.Velocity.Scale(dt))
		if e.Confused != nil {
			e.Confused.Remaining -= dt
			if e.Confused.Remaining <= 0 {
				e.Confused = nil
			}
		}
		if e.Position.Y < s.world.KillY {
			w.Remove(e.ID)
		}
	}
}

func (s *FallingSystem) swarmCentroid(w *ecs.World) (float64, int) {
	sum := 0.0
	n := 0
	for _, e := range w.With(ecs.CompFalling) {
		if e.Falling.Behavior == ecs.BehaviorSwarm {
			sum += e.Position.X
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	return sum / float64(n), n
}

// StackJitter maps (base, index) to a deterministic offset in
// [-max, +max].
func StackJitter(baseID ecs.EntityID, index int, max float64) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(string(baseID)))
	_, _ = h.Write([]byte(":" + strconv.Itoa(index)))
	u := float64(h.Sum32()) / float64(math.MaxUint32) // 0..1
	return (2*u - 1) * max
}

// speedFactor is the product of active fall-speed modifiers on e. Used to
// scale steering acceleration so a frozen diver does not punch through its
// freeze.
func speedFactor(e *ecs.Entity) float64 {
	f := 1.0
	for _, m := range e.SpeedMods {
		f *= m.Factor
	}
	return f
}

func sign(x float64) float64 {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}
